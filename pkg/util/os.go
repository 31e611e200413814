package util

import (
	"os"
	"strings"
)

// GetMachineID identifies the host for metric labels. MACHINE_ID overrides
// /etc/machine-id.
func GetMachineID() string {
	machineID := os.Getenv("MACHINE_ID")
	if machineID != "" {
		return machineID
	}
	const machineIDPath = "/etc/machine-id"
	data, err := os.ReadFile(machineIDPath)
	if err != nil {
		return "unknown-machine-id"
	}
	return strings.TrimSpace(string(data))
}
