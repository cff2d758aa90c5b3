package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// DefaultCredentialsFile is read when no inline credentials are given
const DefaultCredentialsFile = "credentials.json"

// ErrNoCredentials means neither inline JSON nor a credentials file was found
var ErrNoCredentials = errors.New("no spreadsheet credentials found")

// Credentials authenticate the Lark app that owns the spreadsheet
type Credentials struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
	// Source is "inline" or the file path the credentials came from
	Source string `json:"-"`
}

// ResolveCredentials returns the first credentials found, inline JSON before
// the file at filePath (DefaultCredentialsFile when empty). A present but
// malformed source is an error, not a fall-through.
func ResolveCredentials(inlineJSON, filePath string) (*Credentials, error) {
	if strings.TrimSpace(inlineJSON) != "" {
		creds, err := parseCredentials([]byte(inlineJSON))
		if err != nil {
			return nil, fmt.Errorf("inline credentials: %w", err)
		}
		creds.Source = "inline"
		return creds, nil
	}

	if filePath == "" {
		filePath = DefaultCredentialsFile
	}

	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := parseCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("credentials file %s: %w", filePath, err)
	}
	creds.Source = filePath
	return creds, nil
}

func parseCredentials(data []byte) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	creds.AppID = strings.TrimSpace(creds.AppID)
	creds.AppSecret = strings.TrimSpace(creds.AppSecret)
	if creds.AppID == "" || creds.AppSecret == "" {
		return nil, fmt.Errorf("app_id and app_secret are required")
	}
	return &creds, nil
}
