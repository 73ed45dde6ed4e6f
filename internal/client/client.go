package client

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/minglehq/mingle/internal/client/repository"
	"github.com/minglehq/mingle/internal/common"
	"github.com/minglehq/mingle/internal/domain"
	msync "github.com/minglehq/mingle/internal/sync"
)

var (
	once   sync.Once
	client *Client
)

// LoginState true -> successful login, false -> unauthorized requires login
type LoginState bool
type LoginMonitor = msync.StateMonitor[LoginState]

type Client struct {
	AuthToken  string // if zero valued -> requires login
	CurrentUsr *domain.User
	FilesDir   string

	ep   endpoints
	krm  *keyringManager
	db   *repository.DB
	repo *repository.LocalRepository

	BT         *common.BackgroundTask
	LoginState *LoginMonitor
}

func Init() error {
	var initErr error
	once.Do(func() {
		c := &Client{
			ep: resolveEndpoints(),
			BT: common.NewBackgroundTask(),
		}
		c.LoginState = msync.NewStateMonitor[LoginState](false)
		if c.krm, initErr = newKeyringManager(); initErr != nil {
			return
		}
		// ignoring the errors, the zero value of AuthToken means login is required
		c.AuthToken = c.krm.getAuthTokenFromKeyring()
		if c.FilesDir, initErr = ensureFilesDir(); initErr != nil {
			return
		}
		if c.db, initErr = repository.OpenDB(c.FilesDir); initErr != nil {
			return
		}
		if initErr = c.db.RunMigrations(); initErr != nil {
			return
		}
		c.repo = repository.NewLocalRepository(c.db)
		if u, err := c.repo.GetCurrentUser(); err == nil {
			c.CurrentUsr = u
		}
		c.BT.Run(func(shtdwnCtx context.Context) {
			c.LoginState.Broadcast(shtdwnCtx)
		})
		c.BT.Run(c.manageUserLogins)
		client = c
	})
	return initErr
}

func Get() *Client {
	return client
}

// CachedChatHeads is the last server snapshot of the conversation list, shown
// before the messaging session connects.
func (c *Client) CachedChatHeads() []*domain.ChatHead {
	heads, err := c.repo.GetChatHeads()
	if err != nil {
		slog.Error(err.Error())
		return nil
	}
	return heads
}

func (c *Client) Logout() {
	c.AuthToken = ""
	c.CurrentUsr = nil
	if err := c.krm.clearKeyring(); err != nil {
		slog.Error(err.Error())
	}
	if err := c.repo.DeletePreviousUser(); err != nil {
		slog.Error(err.Error())
	}
	c.LoginState.WriteToChan(false)
}

// manageUserLogins listens for state changes on LoginState, and on user login
// fetches and persists the profile. A login by a different user than the one
// previously cached gets a brand-new local DB.
func (c *Client) manageUserLogins(shtdwnCtx context.Context) {
	for {
		s := c.LoginState.WaitForStateChange()
		select {
		case <-shtdwnCtx.Done():
			return
		default:
		}
		if !s {
			continue
		}
		u, err, _ := c.GetProfile()
		if err != nil {
			slog.Error("unable to fetch profile after login", "err", err.Error())
			continue
		}
		c.CurrentUsr = u
		retrievedUsr, _ := c.repo.GetCurrentUser() // ignore the error
		if retrievedUsr != nil && retrievedUsr.ID != u.ID {
			// the cached state belongs to someone else, start clean
			c.db.Close()
			if err = repository.DeleteDBFile(c.FilesDir); err != nil {
				slog.Error(err.Error())
			}
			db, err := repository.OpenDB(c.FilesDir)
			if err != nil {
				slog.Error(err.Error())
				continue
			}
			c.db = db
			if err = c.db.RunMigrations(); err != nil {
				slog.Error(err.Error())
				continue
			}
			c.repo = repository.NewLocalRepository(c.db)
		} else {
			if err := c.repo.DeletePreviousUser(); err != nil {
				slog.Error("unable to delete previous user", "err", err.Error())
			}
		}
		if err := c.repo.SaveCurrentUser(u); err != nil {
			slog.Error("unable to save current user to local repo", "err", err.Error())
		}
	}
}

func ensureFilesDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, appName)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
