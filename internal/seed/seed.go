package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"devicehub/internal/models"
)

// Seed заливает синтетический набор данных для демо и интеграционных
// прогонов. Идемпотентен: существующие записи не трогает.
func Seed(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true})

	now := time.Now().UTC()
	lastWeek := now.Add(-7 * 24 * time.Hour)

	devices := []models.Device{
		{
			DeviceID:         "DG-100001",
			Name:             "Device Router 1",
			Model:            "TransPort WR31",
			FirmwareVersion:  "4.2.1",
			ConnectionStatus: "connected",
			IPAddress:        "10.20.0.11",
			MACAddress:       "00:27:04:9a:3c:01",
			LastConnected:    &now,
		},
		{
			DeviceID:         "DG-100002",
			Name:             "Device Router 2",
			Model:            "TransPort WR44",
			FirmwareVersion:  "4.1.8",
			ConnectionStatus: "disconnected",
			IPAddress:        "10.20.0.12",
			MACAddress:       "00:27:04:9a:3c:02",
			LastConnected:    &lastWeek,
		},
	}
	if err := tx.Create(&devices).Error; err != nil {
		return fmt.Errorf("seed devices: %w", err)
	}

	settings := []models.DeviceSetting{
		{DeviceID: "DG-100001", SettingKey: "timezone", SettingValue: "UTC", LastUpdated: now},
		{DeviceID: "DG-100001", SettingKey: "dns_primary", SettingValue: "10.20.0.2", LastUpdated: now},
		{DeviceID: "DG-100001", SettingKey: "remote_syslog", SettingValue: "enabled", LastUpdated: now},
		{DeviceID: "DG-100002", SettingKey: "timezone", SettingValue: "Europe/Berlin", LastUpdated: now},
	}
	if err := tx.Create(&settings).Error; err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	networks := []models.WifiNetwork{
		{
			DeviceID: "DG-100001", NetworkID: "wifi_1",
			SSID: "Office", SecurityType: "wpa2-psk", Enabled: true,
			Channel: models.NumericFromInt(6), SignalStrength: mustNumeric("-52.5"),
			LastUpdated: now,
		},
		{
			DeviceID: "DG-100001", NetworkID: "wifi_2",
			SSID: "Office-Guest", SecurityType: "wpa2-psk", Enabled: false,
			Channel: models.NumericFromInt(11), SignalStrength: mustNumeric("-60.25"),
			LastUpdated: now,
		},
		{
			DeviceID: "DG-100002", NetworkID: "wifi_1",
			SSID: "Branch", SecurityType: "wpa3-psk", Enabled: true,
			Channel: models.NumericFromInt(1), SignalStrength: mustNumeric("-48"),
			LastUpdated: now,
		},
	}
	if err := tx.Create(&networks).Error; err != nil {
		return fmt.Errorf("seed wifi networks: %w", err)
	}

	users := []models.User{
		{
			UserID: "USR-2001", Username: "jsmith", Email: "jsmith@example.com",
			FirstName: "John", LastName: "Smith", Role: "admin",
			CreatedAt: lastWeek, LastLogin: &now,
		},
		{
			UserID: "USR-2002", Username: "mgarcia", Email: "mgarcia@example.com",
			FirstName: "Maria", LastName: "Garcia", Role: "operator",
			CreatedAt: lastWeek,
		},
	}
	if err := tx.Create(&users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	activities := []models.UserActivity{
		{
			UserID: "USR-2001", Timestamp: now.Add(-3 * time.Hour),
			ActivityType: "login", Description: "User logged in",
			IPAddress: "192.168.1.10",
			Details:   datatypes.JSON([]byte(`{"method":"cognito","mfa":true}`)),
		},
		{
			UserID: "USR-2001", Timestamp: now.Add(-2 * time.Hour),
			ActivityType: "config_change", Description: "Updated wifi settings on DG-100001",
			IPAddress: "192.168.1.10",
			Details:   datatypes.JSON([]byte(`{"device_id":"DG-100001","network_id":"wifi_1"}`)),
		},
		{
			UserID: "USR-2002", Timestamp: now.Add(-1 * time.Hour),
			ActivityType: "login", Description: "User logged in",
			IPAddress: "192.168.1.22",
		},
	}
	if err := tx.Create(&activities).Error; err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}
	return nil
}

func mustNumeric(s string) models.Numeric {
	n, err := models.NumericFromString(s)
	if err != nil {
		panic(err)
	}
	return n
}
