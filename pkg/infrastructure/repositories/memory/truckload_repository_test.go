package memory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/freightpay/pkg/domain/entities"
	pkgerrors "github.com/vsinha/freightpay/pkg/errors"
)

func TestTruckloadRepository(t *testing.T) {
	repo := NewTruckloadRepository()
	err := repo.LoadTruckloads([]*entities.Truckload{
		{ID: "TL-2", DriverID: "DRV-2"},
		{ID: "TL-1", DriverID: "DRV-1"},
	})
	if err != nil {
		t.Fatalf("Failed to load truckloads: %v", err)
	}

	truckload, err := repo.GetTruckload("TL-1")
	if err != nil {
		t.Fatalf("Failed to get truckload: %v", err)
	}
	if truckload.DriverID != "DRV-1" {
		t.Errorf("Expected driver DRV-1, got %s", truckload.DriverID)
	}

	all, _ := repo.GetAllTruckloads()
	if len(all) != 2 || all[0].ID != "TL-1" {
		t.Errorf("Expected truckloads sorted by id, got %v", all)
	}

	if _, err := repo.GetTruckload("TL-9"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND, got %v", err)
	}
}

func TestDriverSettingsRepository(t *testing.T) {
	repo := NewDriverSettingsRepository()
	pct := decimal.RequireFromString("27.5")
	if err := repo.LoadSettings([]*entities.DriverSettings{{DriverID: "DRV-1", LoadPercentage: &pct}}); err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	settings, err := repo.GetSettings("DRV-1")
	if err != nil || settings == nil {
		t.Fatalf("Expected settings for DRV-1, got %v, %v", settings, err)
	}
	if !settings.EffectiveLoadPercentage(entities.DefaultLoadPercentage).Equal(pct) {
		t.Errorf("Expected 27.5, got %s", settings.EffectiveLoadPercentage(entities.DefaultLoadPercentage))
	}

	missing, err := repo.GetSettings("DRV-9")
	if err != nil {
		t.Fatalf("Unexpected error for missing settings: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil settings for unknown driver, got %v", missing)
	}
}
