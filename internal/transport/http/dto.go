package http

import (
	"encoding/json"

	"opsdeck/internal/ports"
)

type assetDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Barcode        string  `json:"barcode"`
	Category       string  `json:"category"`
	Status         string  `json:"status"`
	Floor          string  `json:"floor"`
	Room           string  `json:"room"`
	PurchasePrice  float64 `json:"purchasePrice"`
	PurchasedAt    string  `json:"purchasedAt"`
	DisposedAt     *string `json:"disposedAt,omitempty"`
	DisposalReason *string `json:"disposalReason,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

func toAssetDTO(record ports.AssetRecord) assetDTO {
	return assetDTO{
		ID:             record.AssetID,
		Name:           record.Name,
		Barcode:        record.Barcode,
		Category:       record.Category,
		Status:         record.Status,
		Floor:          record.Floor,
		Room:           record.Room,
		PurchasePrice:  record.PurchasePrice,
		PurchasedAt:    record.PurchasedAt,
		DisposedAt:     record.DisposedAt,
		DisposalReason: record.DisposalReason,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func toAssetDTOs(records []ports.AssetRecord) []assetDTO {
	out := make([]assetDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toAssetDTO(record))
	}
	return out
}

type kitchenDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	CreatedAt string `json:"createdAt"`
}

func toKitchenDTOs(records []ports.KitchenRecord) []kitchenDTO {
	out := make([]kitchenDTO, 0, len(records))
	for _, record := range records {
		out = append(out, kitchenDTO{
			ID:        record.KitchenID,
			Name:      record.Name,
			Location:  record.Location,
			CreatedAt: record.CreatedAt,
		})
	}
	return out
}

type supplyDTO struct {
	ID          string  `json:"id"`
	KitchenID   string  `json:"kitchenId"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	CostPerUnit float64 `json:"costPerUnit"`
	MinQuantity float64 `json:"minQuantity"`
	ExpiresAt   string  `json:"expiresAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toSupplyDTO(record ports.FoodSupplyRecord) supplyDTO {
	return supplyDTO{
		ID:          record.SupplyID,
		KitchenID:   record.KitchenID,
		Name:        record.Name,
		Category:    record.Category,
		Quantity:    record.Quantity,
		Unit:        record.Unit,
		CostPerUnit: record.CostPerUnit,
		MinQuantity: record.MinQuantity,
		ExpiresAt:   record.ExpiresAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toSupplyDTOs(records []ports.FoodSupplyRecord) []supplyDTO {
	out := make([]supplyDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toSupplyDTO(record))
	}
	return out
}

type disposalDTO struct {
	ID         string  `json:"id"`
	KitchenID  string  `json:"kitchenId"`
	SupplyID   string  `json:"supplyId"`
	SupplyName string  `json:"supplyName"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
	Reason     string  `json:"reason"`
	Cost       float64 `json:"cost"`
	DisposedAt string  `json:"disposedAt"`
}

func toDisposalDTO(record ports.FoodDisposalRecord) disposalDTO {
	return disposalDTO{
		ID:         record.DisposalID,
		KitchenID:  record.KitchenID,
		SupplyID:   record.SupplyID,
		SupplyName: record.SupplyName,
		Quantity:   record.Quantity,
		Unit:       record.Unit,
		Reason:     record.Reason,
		Cost:       record.Cost,
		DisposedAt: record.DisposedAt,
	}
}

func toDisposalDTOs(records []ports.FoodDisposalRecord) []disposalDTO {
	out := make([]disposalDTO, 0, len(records))
	for _, record := range records {
		out = append(out, toDisposalDTO(record))
	}
	return out
}

type recipeDTO struct {
	ID          string          `json:"id"`
	KitchenID   string          `json:"kitchenId"`
	Name        string          `json:"name"`
	Servings    int             `json:"servings"`
	Ingredients json.RawMessage `json:"ingredients"`
}

func toRecipeDTOs(records []ports.RecipeRecord) []recipeDTO {
	out := make([]recipeDTO, 0, len(records))
	for _, record := range records {
		ingredients := json.RawMessage(record.IngredientsJSON)
		if len(ingredients) == 0 {
			ingredients = json.RawMessage("[]")
		}
		out = append(out, recipeDTO{
			ID:          record.RecipeID,
			KitchenID:   record.KitchenID,
			Name:        record.Name,
			Servings:    record.Servings,
			Ingredients: ingredients,
		})
	}
	return out
}

type tripDTO struct {
	ID         string   `json:"id"`
	VehicleID  string   `json:"vehicleId"`
	Driver     string   `json:"driver,omitempty"`
	Purpose    string   `json:"purpose,omitempty"`
	Status     string   `json:"status"`
	StartLat   float64  `json:"startLat"`
	StartLng   float64  `json:"startLng"`
	EndLat     *float64 `json:"endLat,omitempty"`
	EndLng     *float64 `json:"endLng,omitempty"`
	DistanceKM float64  `json:"distanceKm"`
	Cost       float64  `json:"cost"`
	StartedAt  string   `json:"startedAt"`
	EndedAt    *string  `json:"endedAt,omitempty"`
}

func toTripDTO(record ports.TripRecord) tripDTO {
	return tripDTO{
		ID:         record.TripID,
		VehicleID:  record.VehicleID,
		Driver:     record.Driver,
		Purpose:    record.Purpose,
		Status:     record.Status,
		StartLat:   record.StartLat,
		StartLng:   record.StartLng,
		EndLat:     record.EndLat,
		EndLng:     record.EndLng,
		DistanceKM: record.DistanceKM,
		Cost:       record.Cost,
		StartedAt:  record.StartedAt,
		EndedAt:    record.EndedAt,
	}
}
