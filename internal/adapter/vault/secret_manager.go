package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

// SecretManager reads deploy secrets from Vault's KV v2 engine under
// secret/data/enerlytics/*.
type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) read(path, key string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault: no secret at %s", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault: unexpected secret shape at %s", path)
	}
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: missing key %s at %s", key, path)
	}
	return value, nil
}

func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.read("secret/data/enerlytics/database", "url")
}

func (sm *SecretManager) GetSendGridAPIKey() (string, error) {
	return sm.read("secret/data/enerlytics/sendgrid", "api_key")
}
