/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"opsdeck/internal/bootstrap/logging"
	"opsdeck/internal/domain/asset"
	"opsdeck/internal/errs"
	"opsdeck/internal/infrastructure/persistence/sqlite/model"
)

type seedFile struct {
	Tenants []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"tenants"`
	Kitchens []struct {
		ID       string `yaml:"id"`
		Tenant   string `yaml:"tenant"`
		Name     string `yaml:"name"`
		Location string `yaml:"location"`
	} `yaml:"kitchens"`
	Supplies []struct {
		ID            string  `yaml:"id"`
		Tenant        string  `yaml:"tenant"`
		Kitchen       string  `yaml:"kitchen"`
		Name          string  `yaml:"name"`
		Category      string  `yaml:"category"`
		Quantity      float64 `yaml:"quantity"`
		Unit          string  `yaml:"unit"`
		CostPerUnit   float64 `yaml:"costPerUnit"`
		MinQuantity   float64 `yaml:"minQuantity"`
		ExpiresInDays int     `yaml:"expiresInDays"`
	} `yaml:"supplies"`
	Assets []struct {
		ID            string  `yaml:"id"`
		Tenant        string  `yaml:"tenant"`
		Name          string  `yaml:"name"`
		Barcode       string  `yaml:"barcode"`
		Category      string  `yaml:"category"`
		Floor         string  `yaml:"floor"`
		Room          string  `yaml:"room"`
		PurchasePrice float64 `yaml:"purchasePrice"`
	} `yaml:"assets"`
	Vehicles []struct {
		ID        string  `yaml:"id"`
		Tenant    string  `yaml:"tenant"`
		Name      string  `yaml:"name"`
		Plate     string  `yaml:"plate"`
		CostPerKM float64 `yaml:"costPerKm"`
	} `yaml:"vehicles"`
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture data from a YAML file",
	RunE: withApp(func(cmd *cobra.Command, deps *appDeps) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		fixtureFile, _ := cmd.Flags().GetString("file")
		logging.Info(ctx, "loading fixtures", slog.String("file", fixtureFile))

		raw, err := os.ReadFile(fixtureFile)
		if err != nil {
			return errs.Wrapf(err, "read fixture file %s", fixtureFile)
		}

		var fixtures seedFile
		if err := yaml.Unmarshal(raw, &fixtures); err != nil {
			return errs.Wrapf(err, "parse fixture file %s", fixtureFile)
		}

		if err := deps.App.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		now := time.Now().UTC().Format(time.RFC3339Nano)
		db := deps.App.DB.WithContext(ctx)
		inserted := 0

		err = db.Transaction(func(tx *gorm.DB) error {
			upsert := tx.Clauses(clause.OnConflict{DoNothing: true})

			for _, row := range fixtures.Tenants {
				if err := upsert.Create(&model.Tenant{
					TenantID:  row.ID,
					Name:      row.Name,
					CreatedAt: now,
				}).Error; err != nil {
					return errs.Wrapf(err, "seed tenant %s", row.ID)
				}
				inserted++
			}

			for _, row := range fixtures.Kitchens {
				if err := upsert.Create(&model.Kitchen{
					KitchenID: row.ID,
					TenantID:  row.Tenant,
					Name:      row.Name,
					Location:  row.Location,
					CreatedAt: now,
				}).Error; err != nil {
					return errs.Wrapf(err, "seed kitchen %s", row.ID)
				}
				inserted++
			}

			for _, row := range fixtures.Supplies {
				supplyID := row.ID
				if supplyID == "" {
					supplyID = uuid.NewString()
				}
				expiresAt := time.Now().UTC().AddDate(0, 0, row.ExpiresInDays).Format(time.RFC3339Nano)
				if err := upsert.Create(&model.FoodSupply{
					SupplyID:    supplyID,
					TenantID:    row.Tenant,
					KitchenID:   row.Kitchen,
					Name:        row.Name,
					Category:    row.Category,
					Quantity:    row.Quantity,
					Unit:        row.Unit,
					CostPerUnit: row.CostPerUnit,
					MinQuantity: row.MinQuantity,
					ExpiresAt:   expiresAt,
					CreatedAt:   now,
					UpdatedAt:   now,
				}).Error; err != nil {
					return errs.Wrapf(err, "seed supply %s", row.Name)
				}
				inserted++
			}

			for _, row := range fixtures.Assets {
				assetID := row.ID
				if assetID == "" {
					assetID = uuid.NewString()
				}
				barcode := row.Barcode
				if barcode == "" {
					barcode = asset.GenerateBarcode()
				}
				if err := upsert.Create(&model.Asset{
					AssetID:       assetID,
					TenantID:      row.Tenant,
					Name:          row.Name,
					Barcode:       barcode,
					Category:      row.Category,
					Status:        asset.StatusActive,
					Floor:         row.Floor,
					Room:          row.Room,
					PurchasePrice: row.PurchasePrice,
					PurchasedAt:   now,
					CreatedAt:     now,
					UpdatedAt:     now,
				}).Error; err != nil {
					return errs.Wrapf(err, "seed asset %s", row.Name)
				}
				inserted++
			}

			for _, row := range fixtures.Vehicles {
				vehicleID := row.ID
				if vehicleID == "" {
					vehicleID = uuid.NewString()
				}
				if err := upsert.Create(&model.Vehicle{
					VehicleID: vehicleID,
					TenantID:  row.Tenant,
					Name:      row.Name,
					Plate:     row.Plate,
					CostPerKM: row.CostPerKM,
					CreatedAt: now,
				}).Error; err != nil {
					return errs.Wrapf(err, "seed vehicle %s", row.Plate)
				}
				inserted++
			}

			return nil
		})
		if err != nil {
			logging.Error(ctx, "seed failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "seed fixtures")
		}

		logging.Info(ctx, "seed finished", slog.Int("rows", inserted))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "seeded %d rows from %s\n", inserted, fixtureFile); err != nil {
			return errs.Wrap(err, "write seed output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("file", "configs/seed.yaml", "Fixture file path")
}
