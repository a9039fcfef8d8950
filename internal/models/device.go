package models

import (
	"time"
)

// Device — инвентарная запись устройства. Создаётся сидером/провижинингом,
// инструментальный слой её не создаёт и не удаляет.
type Device struct {
	DeviceID         string     `gorm:"primaryKey;size:64" json:"device_id"`
	Name             string     `gorm:"size:255" json:"name"`
	Model            string     `gorm:"size:255" json:"model"`
	FirmwareVersion  string     `gorm:"size:64" json:"firmware_version"`
	ConnectionStatus string     `gorm:"size:32;index" json:"connection_status"`
	IPAddress        string     `gorm:"size:64" json:"ip_address"`
	MACAddress       string     `gorm:"size:64" json:"mac_address"`
	LastConnected    *time.Time `json:"last_connected,omitempty"`
}

// DeviceSetting — одна настройка устройства (составной ключ device_id+setting_key).
// Запись upsert-ится целиком, last_updated ставится временем записи.
type DeviceSetting struct {
	DeviceID     string    `gorm:"primaryKey;size:64" json:"device_id"`
	SettingKey   string    `gorm:"primaryKey;size:128" json:"setting_key"`
	SettingValue string    `gorm:"size:1024" json:"setting_value"`
	LastUpdated  time.Time `json:"last_updated"`
}

// WifiNetwork — конфигурация WiFi-сети устройства (device_id+network_id).
// Числовые поля храним точными десятичными, float — только на JSON-границе.
type WifiNetwork struct {
	DeviceID       string    `gorm:"primaryKey;size:64" json:"device_id"`
	NetworkID      string    `gorm:"primaryKey;size:64" json:"network_id"`
	SSID           string    `gorm:"size:255" json:"ssid"`
	SecurityType   string    `gorm:"size:64" json:"security_type"`
	Enabled        bool      `json:"enabled"`
	Channel        Numeric   `gorm:"type:decimal(10,2)" json:"channel"`
	SignalStrength Numeric   `gorm:"type:decimal(10,2)" json:"signal_strength"`
	LastUpdated    time.Time `json:"last_updated"`
}
