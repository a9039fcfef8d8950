package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"devicehub/internal/logs"
	"devicehub/internal/repo"
)

// Request — входное событие инструмента: имя действия плюс его параметры.
type Request struct {
	Action       string `json:"action_name"`
	DeviceID     string `json:"device_id,omitempty"`
	NetworkID    string `json:"network_id,omitempty"`
	SSID         string `json:"ssid,omitempty"`
	SecurityType string `json:"security_type,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	ActivityType string `json:"activity_type,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

// Response — фиксированный конверт. Body всегда JSON-строка,
// чтобы конверт не зависел от транспорта.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type Dispatcher struct {
	devices *repo.DeviceStore
	users   *repo.UserStore
}

func New(devices *repo.DeviceStore, users *repo.UserStore) *Dispatcher {
	return &Dispatcher{devices: devices, users: users}
}

// Dispatch выполняет одно действие и сворачивает результат в конверт.
// За границу метода ошибки не выходят.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp Response) {
	defer func() {
		if rec := recover(); rec != nil {
			logs.Logger.Errorf("dispatch panic: action=%s: %v", req.Action, rec)
			resp = errorResponse(http.StatusInternalServerError, fmt.Sprintf("internal error: %v", rec), nil)
		}
	}()

	action, ok := ParseAction(req.Action)
	if !ok {
		return toResponse(nil, &UnknownActionError{Name: req.Action})
	}

	var (
		payload any
		err     error
	)
	switch action {
	case ActionListDevices:
		payload, err = d.listDevices(ctx, req)
	case ActionGetDeviceSettings:
		payload, err = d.getDeviceSettings(ctx, req)
	case ActionListWifiNetworks:
		payload, err = d.listWifiNetworks(ctx, req)
	case ActionListUsers:
		payload, err = d.listUsers(ctx, req)
	case ActionQueryUserActivity:
		payload, err = d.queryUserActivity(ctx, req)
	case ActionUpdateWifiSSID:
		payload, err = d.updateWifiSSID(ctx, req)
	case ActionUpdateWifiSecurity:
		payload, err = d.updateWifiSecurity(ctx, req)
	}
	return toResponse(payload, err)
}

func (d *Dispatcher) listDevices(ctx context.Context, req Request) (any, error) {
	devices, err := d.devices.ListDevices(ctx, req.Limit)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	return devices, nil
}

func (d *Dispatcher) getDeviceSettings(ctx context.Context, req Request) (any, error) {
	if req.DeviceID == "" {
		return nil, missingParam("device_id")
	}
	dev, err := d.devices.GetDevice(ctx, req.DeviceID)
	if errors.Is(err, repo.ErrDeviceNotFound) {
		return nil, &NotFoundError{What: "device", ID: req.DeviceID}
	}
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	settings, err := d.devices.SettingsMap(ctx, req.DeviceID)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}

	// метаданные устройства + карта настроек одним объектом
	out := map[string]any{
		"device_id":         dev.DeviceID,
		"name":              dev.Name,
		"model":             dev.Model,
		"firmware_version":  dev.FirmwareVersion,
		"connection_status": dev.ConnectionStatus,
		"ip_address":        dev.IPAddress,
		"mac_address":       dev.MACAddress,
		"settings":          settings,
	}
	if dev.LastConnected != nil {
		out["last_connected"] = dev.LastConnected
	}
	return out, nil
}

func (d *Dispatcher) listWifiNetworks(ctx context.Context, req Request) (any, error) {
	if req.DeviceID == "" {
		return nil, missingParam("device_id")
	}
	nets, err := d.devices.ListWifiNetworks(ctx, req.DeviceID)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	return nets, nil
}

func (d *Dispatcher) listUsers(ctx context.Context, req Request) (any, error) {
	users, err := d.users.ListUsers(ctx, req.Limit)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	return users, nil
}

func (d *Dispatcher) queryUserActivity(ctx context.Context, req Request) (any, error) {
	if req.StartDate == "" {
		return nil, missingParam("start_date")
	}
	if req.EndDate == "" {
		return nil, missingParam("end_date")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Reason: err.Error()}
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Reason: err.Error()}
	}
	acts, err := d.users.QueryActivities(ctx, start, end, req.UserID, req.ActivityType, req.Limit)
	if err != nil {
		return nil, &StoreError{Cause: err}
	}
	return acts, nil
}

func (d *Dispatcher) updateWifiSSID(ctx context.Context, req Request) (any, error) {
	if err := requireNetworkParams(req); err != nil {
		return nil, err
	}
	if req.SSID == "" {
		return nil, missingParam("ssid")
	}
	oldSSID, newSSID, err := d.devices.UpdateWifiSSID(ctx, req.DeviceID, req.NetworkID, req.SSID)
	if err != nil {
		return nil, mapNetworkErr(err, req)
	}
	return map[string]string{"old_ssid": oldSSID, "new_ssid": newSSID}, nil
}

func (d *Dispatcher) updateWifiSecurity(ctx context.Context, req Request) (any, error) {
	if err := requireNetworkParams(req); err != nil {
		return nil, err
	}
	if req.SecurityType == "" {
		return nil, missingParam("security_type")
	}
	oldType, newType, err := d.devices.UpdateWifiSecurity(ctx, req.DeviceID, req.NetworkID, req.SecurityType)
	if err != nil {
		return nil, mapNetworkErr(err, req)
	}
	return map[string]string{"old_security_type": oldType, "new_security_type": newType}, nil
}

func requireNetworkParams(req Request) error {
	if req.DeviceID == "" {
		return missingParam("device_id")
	}
	if req.NetworkID == "" {
		return missingParam("network_id")
	}
	return nil
}

func mapNetworkErr(err error, req Request) error {
	switch {
	case errors.Is(err, repo.ErrDeviceNotFound):
		return &NotFoundError{What: "device", ID: req.DeviceID}
	case errors.Is(err, repo.ErrNetworkNotFound):
		return &NotFoundError{What: "wifi network", ID: req.DeviceID + "/" + req.NetworkID}
	default:
		return &StoreError{Cause: err}
	}
}

// parseDate принимает RFC 3339 и укороченную форму без зоны.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected ISO-8601 timestamp, got %q", s)
	}
	return t, nil
}

// toResponse сворачивает payload/ошибку в конверт со статусом.
func toResponse(payload any, err error) Response {
	if err == nil {
		b, mErr := json.Marshal(payload)
		if mErr != nil {
			return errorResponse(http.StatusInternalServerError, "response serialization failed: "+mErr.Error(), nil)
		}
		return Response{StatusCode: http.StatusOK, Body: string(b)}
	}

	var (
		vErr *ValidationError
		nErr *NotFoundError
		uErr *UnknownActionError
		sErr *StoreError
	)
	switch {
	case errors.As(err, &uErr):
		return errorResponse(http.StatusBadRequest, uErr.Error(), map[string]any{"valid_actions": ValidActions})
	case errors.As(err, &vErr):
		return errorResponse(http.StatusBadRequest, vErr.Error(), nil)
	case errors.As(err, &nErr):
		return errorResponse(http.StatusNotFound, nErr.Error(), nil)
	case errors.As(err, &sErr):
		logs.Logger.Errorf("store failure: %v", sErr.Cause)
		return errorResponse(http.StatusInternalServerError, sErr.Error(), nil)
	default:
		logs.Logger.Errorf("dispatch failure: %v", err)
		return errorResponse(http.StatusInternalServerError, err.Error(), nil)
	}
}

func errorResponse(status int, msg string, extra map[string]any) Response {
	body := map[string]any{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	b, _ := json.Marshal(body)
	return Response{StatusCode: status, Body: string(b)}
}
