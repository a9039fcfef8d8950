package dispatch

// Action — закрытое множество инструментов. Диспетчеризация идёт
// исчерпывающим switch, а не таблицей по строке.
type Action string

const (
	ActionListDevices        Action = "list_devices"
	ActionGetDeviceSettings  Action = "get_device_settings"
	ActionListWifiNetworks   Action = "list_wifi_networks"
	ActionListUsers          Action = "list_users"
	ActionQueryUserActivity  Action = "query_user_activity"
	ActionUpdateWifiSSID     Action = "update_wifi_ssid"
	ActionUpdateWifiSecurity Action = "update_wifi_security"
)

// ValidActions — порядок фиксирован, попадает в тело ошибки unknown action.
var ValidActions = []Action{
	ActionListDevices,
	ActionGetDeviceSettings,
	ActionListWifiNetworks,
	ActionListUsers,
	ActionQueryUserActivity,
	ActionUpdateWifiSSID,
	ActionUpdateWifiSecurity,
}

// ParseAction возвращает типизированное действие либо false.
func ParseAction(name string) (Action, bool) {
	a := Action(name)
	switch a {
	case ActionListDevices, ActionGetDeviceSettings, ActionListWifiNetworks,
		ActionListUsers, ActionQueryUserActivity,
		ActionUpdateWifiSSID, ActionUpdateWifiSecurity:
		return a, true
	}
	return "", false
}
