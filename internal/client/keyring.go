package client

import (
	"github.com/99designs/keyring"
)

var (
	appName     = "Mingle"
	serviceName = " Auth"
	tokenKey    = " Access Token"
	userIDKey   = " User ID"
)

type keyringManager struct {
	kr keyring.Keyring
}

func newKeyringManager() (*keyringManager, error) {
	cfg := keyring.Config{
		ServiceName:             serviceName,
		KeyCtlScope:             "user",
		LibSecretCollectionName: appName,
		WinCredPrefix:           appName,
	}
	kr, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &keyringManager{kr: kr}, nil
}

func (k *keyringManager) setAuthTokenInKeyring(label, data string) error {
	item := keyring.Item{
		Key:         tokenKey,
		Data:        []byte(data),
		Description: "auth token to validate user after basic login",
	}
	item.Label = "user=" + label
	return k.kr.Set(item)
}

// the messaging session needs the caller's identity at connect time, so the
// user id is persisted next to the token rather than re-fetched on startup
func (k *keyringManager) setUserIDInKeyring(id string) error {
	item := keyring.Item{
		Key:         userIDKey,
		Data:        []byte(id),
		Description: "id of the logged-in user",
	}
	return k.kr.Set(item)
}

func (k *keyringManager) clearKeyring() error {
	if err := k.kr.Remove(tokenKey); err != nil {
		return err
	}
	return k.kr.Remove(userIDKey)
}

func (k *keyringManager) getAuthTokenFromKeyring() string {
	token, err := k.kr.Get(tokenKey)
	if err != nil {
		return ""
	}
	return string(token.Data)
}

func (k *keyringManager) getUserIDFromKeyring() string {
	id, err := k.kr.Get(userIDKey)
	if err != nil {
		return ""
	}
	return string(id.Data)
}
