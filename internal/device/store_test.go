package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestStoreLoadSaveDelete(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	created := time.Now()

	mock.ExpectQuery(`SELECT id, name, origin, last_connected, created_at`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "origin", "last_connected", "created_at"}).
			AddRow("dev-1", "My Car", "manual", (*time.Time)(nil), created))

	devices, err := store.LoadTaggedDevices(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "dev-1" || devices[0].Origin != OriginManual {
		t.Fatalf("unexpected devices %+v", devices)
	}

	mock.ExpectExec(`INSERT INTO car_devices`).
		WithArgs("dev-1", "My Car", OriginManual, (*time.Time)(nil), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.Save(context.Background(), CarDevice{ID: "dev-1", Name: "My Car", Origin: OriginManual, CreatedAt: created}); err != nil {
		t.Fatalf("save: %v", err)
	}

	mock.ExpectExec(`DELETE FROM car_devices`).
		WithArgs("dev-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	existed, err := store.Delete(context.Background(), "dev-1")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreDeleteAbsent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM car_devices`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	existed, err := NewStore(mock).Delete(context.Background(), "missing")
	if err != nil || existed {
		t.Fatalf("expected absent delete, existed=%v err=%v", existed, err)
	}
}

func TestStoreErrors(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)

	mock.ExpectQuery(`SELECT id, name, origin, last_connected, created_at`).
		WillReturnError(errStore)
	if _, err := store.LoadTaggedDevices(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}

	mock.ExpectExec(`INSERT INTO car_devices`).
		WillReturnError(errStore)
	if err := store.Save(context.Background(), CarDevice{ID: "dev-1"}); err == nil {
		t.Fatalf("expected save error")
	}

	mock.ExpectExec(`DELETE FROM car_devices`).
		WithArgs("dev-1").
		WillReturnError(errStore)
	if _, err := store.Delete(context.Background(), "dev-1"); err == nil {
		t.Fatalf("expected delete error")
	}
}

var errStore = errors.New("store error")
