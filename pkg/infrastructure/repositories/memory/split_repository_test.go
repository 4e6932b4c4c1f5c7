package memory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

func TestSplitConfigRepository(t *testing.T) {
	repo := NewSplitConfigRepository()

	cfg, err := entities.NewSplitConfiguration("ORD-1", decimal.NewFromInt(400), decimal.NewFromInt(150), entities.Pickup, "")
	if err != nil {
		t.Fatalf("Failed to build configuration: %v", err)
	}
	if err := repo.SaveConfiguration(cfg); err != nil {
		t.Fatalf("Failed to save configuration: %v", err)
	}

	got, _ := repo.GetConfiguration("ORD-1")
	if got == nil || !got.MiscValue.Equal(cfg.MiscValue) {
		t.Fatalf("Expected stored configuration, got %v", got)
	}

	all, _ := repo.GetAll()
	if len(all) != 1 {
		t.Errorf("Expected 1 configuration, got %d", len(all))
	}

	if err := repo.DeleteConfiguration("ORD-1"); err != nil {
		t.Fatalf("Failed to delete configuration: %v", err)
	}
	if got, _ := repo.GetConfiguration("ORD-1"); got != nil {
		t.Errorf("Expected nil after delete, got %v", got)
	}
	if err := repo.DeleteConfiguration("ORD-1"); err != nil {
		t.Errorf("Deleting a missing configuration should be a no-op, got %v", err)
	}
}

func TestSettlementRepository(t *testing.T) {
	repo := NewSettlementRepository()

	if _, err := repo.GetSnapshot("TL-1"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}

	snapshot := &entities.SettlementSnapshot{ID: "snap-1", TruckloadID: "TL-1", DriverID: "DRV-1"}
	if err := repo.SaveSnapshot(snapshot); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}
	if err := repo.SaveSnapshot(&entities.SettlementSnapshot{ID: "snap-2", TruckloadID: "TL-1"}); err != nil {
		t.Fatalf("Failed to replace snapshot: %v", err)
	}

	got, err := repo.GetSnapshot("TL-1")
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if got.ID != "snap-2" {
		t.Errorf("Expected latest snapshot snap-2, got %s", got.ID)
	}

	if err := repo.SaveSnapshot(&entities.SettlementSnapshot{ID: "snap-0", TruckloadID: "TL-0"}); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}
	all, _ := repo.GetAll()
	if len(all) != 2 || all[0].TruckloadID != "TL-0" || all[1].ID != "snap-2" {
		t.Errorf("Expected latest snapshots of TL-0 and TL-1 in order, got %+v", all)
	}

	if err := repo.SaveSnapshot(&entities.SettlementSnapshot{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Errorf("Expected VALIDATION_ERROR, got %v", err)
	}
}
