package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"devicehub/internal/models"
)

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrNetworkNotFound = errors.New("wifi network not found")
)

type DeviceStore struct{ db *gorm.DB }

func NewDeviceStore(db *gorm.DB) *DeviceStore { return &DeviceStore{db: db} }

// ListDevices возвращает устройства в стабильном порядке device_id.
// limit <= 0 — без ограничения.
func (s *DeviceStore) ListDevices(ctx context.Context, limit int) ([]models.Device, error) {
	q := s.db.WithContext(ctx).Order("device_id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var devices []models.Device
	if err := q.Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *DeviceStore) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	var d models.Device
	err := s.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SettingsMap отдаёт все настройки устройства как map ключ→значение.
func (s *DeviceStore) SettingsMap(ctx context.Context, deviceID string) (map[string]string, error) {
	var rows []models.DeviceSetting
	err := s.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("setting_key").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.SettingKey] = r.SettingValue
	}
	return out, nil
}

// PutSetting — upsert по полному ключу (device_id, setting_key).
func (s *DeviceStore) PutSetting(ctx context.Context, deviceID, key, value string) error {
	now := time.Now().UTC()
	tx := s.db.WithContext(ctx)

	var existing models.DeviceSetting
	err := tx.Where("device_id = ? AND setting_key = ?", deviceID, key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.DeviceSetting{
			DeviceID:     deviceID,
			SettingKey:   key,
			SettingValue: value,
			LastUpdated:  now,
		}).Error
	}
	if err != nil {
		return err
	}
	existing.SettingValue = value
	existing.LastUpdated = now
	return tx.Save(&existing).Error
}

// ListWifiNetworks: неизвестный device_id — пустой список, не ошибка
// (семантика запроса по отсутствующему ключу партиции).
func (s *DeviceStore) ListWifiNetworks(ctx context.Context, deviceID string) ([]models.WifiNetwork, error) {
	var nets []models.WifiNetwork
	err := s.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("network_id").
		Find(&nets).Error
	if err != nil {
		return nil, err
	}
	return nets, nil
}

// UpdateWifiSSID обновляет ssid сети, возвращает старое и новое значения.
func (s *DeviceStore) UpdateWifiSSID(ctx context.Context, deviceID, networkID, ssid string) (oldSSID, newSSID string, err error) {
	net, err := s.getNetwork(ctx, deviceID, networkID)
	if err != nil {
		return "", "", err
	}
	oldSSID = net.SSID
	net.SSID = ssid
	net.LastUpdated = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(net).Error; err != nil {
		return "", "", err
	}
	return oldSSID, net.SSID, nil
}

// UpdateWifiSecurity обновляет security_type сети, значение сохраняется дословно.
func (s *DeviceStore) UpdateWifiSecurity(ctx context.Context, deviceID, networkID, securityType string) (oldType, newType string, err error) {
	net, err := s.getNetwork(ctx, deviceID, networkID)
	if err != nil {
		return "", "", err
	}
	oldType = net.SecurityType
	net.SecurityType = securityType
	net.LastUpdated = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(net).Error; err != nil {
		return "", "", err
	}
	return oldType, net.SecurityType, nil
}

func (s *DeviceStore) getNetwork(ctx context.Context, deviceID, networkID string) (*models.WifiNetwork, error) {
	// ссылочная целостность device↔network — на уровне приложения
	if _, err := s.GetDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	var net models.WifiNetwork
	err := s.db.WithContext(ctx).
		Where("device_id = ? AND network_id = ?", deviceID, networkID).
		First(&net).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNetworkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &net, nil
}
