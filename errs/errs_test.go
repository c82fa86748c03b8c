package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewDatabaseErrorClassifiesDriverMessages(t *testing.T) {
	cases := []struct {
		name   string
		cause  error
		status int
		is     error
	}{
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_pessoa_email"`), http.StatusConflict, ErrAlreadyExists},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: pessoa.email"), http.StatusConflict, ErrAlreadyExists},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusBadRequest, ErrForeignKeyConstraint},
		{"not found", errors.New("record not found"), http.StatusNotFound, ErrNotFound},
		{"connection", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{"other", errors.New("syntax error at or near"), http.StatusInternalServerError, ErrDatabaseQuery},
	}

	for _, tc := range cases {
		err := NewDatabaseError("create", "person", tc.cause)
		if err.StatusCode != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, err.StatusCode, tc.status)
		}
		if !errors.Is(err, tc.is) {
			t.Errorf("%s: expected errors.Is(%v)", tc.name, tc.is)
		}
		if err.Cause != tc.cause {
			t.Errorf("%s: cause not preserved", tc.name)
		}
	}
}

func TestNewDatabaseErrorKeepsApiErr(t *testing.T) {
	notFound := NewNotFound("specialist")
	if got := NewDatabaseError("find", "specialist", notFound); got != notFound {
		t.Fatalf("expected the original ApiErr to be returned, got %v", got)
	}
}

func TestGetFullErrorWalksCauses(t *testing.T) {
	inner := NewStorageError("save", "cv_1.pdf", errors.New("disk full"))
	outer := NewTransactionError("submit application", inner)
	want := "transaction failed: Transaction rolled back during submit application -> file storage failed: Failed to save cv_1.pdf -> disk full"
	if got := outer.GetFullError(); got != want {
		t.Fatalf("GetFullError() = %q\nwant %q", got, want)
	}
}

func TestUserMessageAndStatus(t *testing.T) {
	consent := NewConsentRequiredError()
	wrapped := fmt.Errorf("submit: %w", consent)

	if got := UserMessage(wrapped, "fallback"); got != "Você precisa ler e aceitar os termos para continuar." {
		t.Fatalf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain"), "fallback"); got != "fallback" {
		t.Fatalf("UserMessage for plain error = %q", got)
	}
	if StatusCode(wrapped) != http.StatusBadRequest {
		t.Fatalf("StatusCode = %d", StatusCode(wrapped))
	}
	if StatusCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Fatal("plain errors should map to 500")
	}
	if !IsValidation(wrapped) {
		t.Fatal("consent error should count as validation")
	}
	if IsValidation(NewDeliveryError("email", errors.New("smtp down"))) {
		t.Fatal("delivery error is not a validation error")
	}
}

func TestConstructorsMatchSentinels(t *testing.T) {
	if !IsNotFound(NewNotFoundError("post")) || !IsNotFound(NewNotFound("post")) {
		t.Fatal("not found constructors must match ErrNotFound")
	}
	if !IsBadRequest(NewBadRequestError("bad id")) {
		t.Fatal("bad request constructor must match ErrBadRequest")
	}
	if !IsUnauthorized(NewUnauthorizedError("login")) {
		t.Fatal("unauthorized constructor must match ErrUnauthorized")
	}
	if !IsConflict(NewConflictError("dup")) {
		t.Fatal("conflict constructor must match ErrConflict")
	}
	if !IsForbidden(NewForbiddenError("no")) {
		t.Fatal("forbidden constructor must match ErrForbidden")
	}
	if !IsDeliveryError(NewDeliveryError("sms", nil)) || !IsStorageError(NewStorageError("open", "x", nil)) {
		t.Fatal("delivery/storage constructors must match their sentinels")
	}
}
