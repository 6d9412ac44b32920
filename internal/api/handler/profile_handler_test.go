package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/netondemand/portal/internal/core/domain"
)

func TestProfileHandler_Update(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		updateFn: func(_ context.Context, sid string, in domain.UpdateProfile) (*domain.UserProfile, error) {
			if sid != "sid-1" || in.FirstName != "Jane" || in.Email != "jane@acme.example" {
				t.Fatalf("unexpected args: %s %+v", sid, in)
			}
			return &domain.UserProfile{ID: "u1", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email}, nil
		},
	}
	c, rec := newJSONContext(e, http.MethodPut, "/api/profile", `{"firstName":"Jane","lastName":"Doe","email":"jane@acme.example"}`)
	signIn(c)

	if err := NewProfileHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["firstName"] != "Jane" || resp["email"] != "jane@acme.example" {
		t.Fatalf("unexpected profile: %v", resp)
	}
}

func TestProfileHandler_Update_ValidationMessages(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		updateFn: func(context.Context, string, domain.UpdateProfile) (*domain.UserProfile, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := newJSONContext(e, http.MethodPut, "/api/profile", `{"email":"nope"}`)
	signIn(c)

	err := NewProfileHandler(stub).Update(c)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["firstName"] != "First name is required" ||
		ve.Fields["lastName"] != "Last name is required" ||
		ve.Fields["email"] != "Please enter a valid email address" {
		t.Fatalf("unexpected messages: %v", ve.Fields)
	}
}

func TestProfileHandler_ChangePassword_TooShort(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		changePasswordFn: func(context.Context, string, domain.ChangePassword) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	c, _ := newJSONContext(e, http.MethodPost, "/api/profile/password", `{"currentPassword":"old","newPassword":"short","confirmPassword":"short"}`)
	signIn(c)

	err := NewProfileHandler(stub).ChangePassword(c)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields["newPassword"] != "Password must be at least 8 characters long" {
		t.Fatalf("expected min length message, got %v", err)
	}
}

func TestProfileHandler_ChangePassword(t *testing.T) {
	e := newEcho()
	stub := &stubProfileService{
		changePasswordFn: func(_ context.Context, userID string, in domain.ChangePassword) (string, error) {
			if userID != "u1" || in.NewPassword != "new-pass1" {
				t.Fatalf("unexpected args: %s %+v", userID, in)
			}
			return "", nil
		},
	}
	c, rec := newJSONContext(e, http.MethodPost, "/api/profile/password", `{"currentPassword":"old-pass","newPassword":"new-pass1","confirmPassword":"new-pass1"}`)
	signIn(c)

	if err := NewProfileHandler(stub).ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp messageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Message != "Password changed successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}
