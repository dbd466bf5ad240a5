package env

import (
	"os"
	"path/filepath"
)

// (default: %USERPROFILE%/.bankrec on Windows, $HOME/.bankrec on Linux)
var BankrecDir string = GetBankrecDir()

/**
 * Get bankrec directory path
 * @returns {string} Returns bankrec directory path
 */
func GetBankrecDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".bankrec")
}
