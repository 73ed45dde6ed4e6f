package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/minglehq/mingle/internal/domain"
)

// Register will register the user & populate the *domain.UserRegister with
// validation errors in case of http.StatusUnprocessableEntity
func (c *Client) Register(u *domain.UserRegister) error {
	body, err := json.Marshal(u)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	resp, err := http.DefaultClient.Post(c.ep.registerUser, "application/json", bytes.NewBuffer(body))
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		var ev struct {
			Errors *domain.UserRegister `json:"errors"`
		}
		ev.Errors = u
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			slog.Error(err.Error())
			return err
		}
		if err = json.Unmarshal(respBody, &ev); err != nil {
			slog.Error(err.Error())
			return err
		}
		return ErrServerValidation
	case http.StatusInternalServerError:
		return errors.New("the server is overwhelmed")
	}
	return nil
}

func (c *Client) Login(u domain.UserAuth) error {
	b, err := json.Marshal(u)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	res, err := http.DefaultClient.Post(c.ep.authenticate, "application/json", bytes.NewBuffer(b))
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer res.Body.Close()
	readBody, err := io.ReadAll(res.Body)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	if res.StatusCode != http.StatusOK {
		return ErrUnauthorized
	}
	var response struct {
		Data struct {
			Token string      `json:"token"`
			User  domain.User `json:"user"`
		} `json:"data"`
	}
	if err = json.Unmarshal(readBody, &response); err != nil {
		slog.Error(err.Error())
		return err
	}
	c.AuthToken = response.Data.Token
	// putting identity in the keyring, the messaging session reads it at connect time
	if err = c.krm.setAuthTokenInKeyring(u.Email, c.AuthToken); err != nil {
		slog.Error(err.Error())
		return err
	}
	if err = c.krm.setUserIDInKeyring(response.Data.User.ID); err != nil {
		slog.Error(err.Error())
		return err
	}
	// signal an authenticated user
	c.LoginState.WriteToChan(true)
	return nil
}

func (c *Client) VerifyOtp(email, otp string) error {
	body := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{email, otp}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	res, err := http.DefaultClient.Post(c.ep.verifyOtp, "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		slog.Error(res.Status)
		return ErrExpiredOTP
	}
	return nil
}

func (c *Client) ResendOtp(email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	resp, err := http.DefaultClient.Post(c.ep.resendOtp, "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return nil
}

func (c *Client) ForgotPassword(email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	resp, err := http.DefaultClient.Post(c.ep.forgotPassword, "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return nil
}

func (c *Client) ResetPassword(pr domain.PasswordReset) error {
	jsonBytes, err := json.Marshal(pr)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	resp, err := http.DefaultClient.Post(c.ep.resetPassword, "application/json", bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New(http.StatusText(resp.StatusCode))
	}
	return nil
}

func (c *Client) GetProfile() (*domain.User, error, int) {
	return c.getUser(c.ep.currentProfile)
}

func (c *Client) GetUserByID(id string) (*domain.User, error, int) {
	return c.getUser(c.ep.userByID + "/" + id)
}

func (c *Client) getUser(url string) (*domain.User, error, int) {
	r, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		slog.Error(err.Error())
		return nil, ErrApplication, 0
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return nil, getMostNestedError(err), http.StatusServiceUnavailable
	}
	defer resp.Body.Close()
	readBody, _ := io.ReadAll(resp.Body)
	var response struct {
		Data domain.User `json:"data"`
	}
	if err = json.Unmarshal(readBody, &response); err != nil {
		slog.Error(err.Error())
		return nil, ErrApplication, 0
	}
	return &response.Data, nil, resp.StatusCode
}

func (c *Client) UpdateProfile(u *domain.UserUpdate) error {
	body, err := json.Marshal(u)
	if err != nil {
		slog.Error(err.Error())
		return err
	}
	r, err := http.NewRequest(http.MethodPut, c.ep.updateUser, bytes.NewBuffer(body))
	if err != nil {
		slog.Error(err.Error())
		return ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return getMostNestedError(err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		// refresh the cached profile, ignore the error as the server accepted the update
		if usr, err, _ := c.GetProfile(); err == nil {
			c.CurrentUsr = usr
			_ = c.repo.DeletePreviousUser()
			_ = c.repo.SaveCurrentUser(usr)
		}
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusUnprocessableEntity:
		return ErrServerValidation
	default:
		return errors.New(http.StatusText(resp.StatusCode))
	}
}

// Follow toggles following the given user, the server flips the state and
// returns the resulting one.
func (c *Client) Follow(userID string) (following bool, err error) {
	body := struct {
		UserID string `json:"userId"`
	}{UserID: userID}
	jsonBytes, err := json.Marshal(body)
	if err != nil {
		slog.Error(err.Error())
		return false, err
	}
	r, err := http.NewRequest(http.MethodPost, c.ep.followUser, bytes.NewBuffer(jsonBytes))
	if err != nil {
		slog.Error(err.Error())
		return false, ErrApplication
	}
	r.Header.Set("Authorization", "Bearer "+c.AuthToken)
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		slog.Error(err.Error())
		return false, getMostNestedError(err)
	}
	defer resp.Body.Close()
	readBody, _ := io.ReadAll(resp.Body)
	var response struct {
		Data struct {
			Following bool `json:"following"`
		} `json:"data"`
	}
	if err = json.Unmarshal(readBody, &response); err != nil {
		slog.Error(err.Error())
		return false, ErrApplication
	}
	return response.Data.Following, nil
}
