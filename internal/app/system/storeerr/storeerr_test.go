package storeerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{
			name: "no documents",
			err:  mongo.ErrNoDocuments,
			want: NotFound,
		},
		{
			name: "wrapped no documents",
			err:  fmt.Errorf("load user: %w", mongo.ErrNoDocuments),
			want: NotFound,
		},
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: DeadlineExceeded,
		},
		{
			name: "context canceled",
			err:  context.Canceled,
			want: Cancelled,
		},
		{
			name: "unauthorized command error",
			err:  mongo.CommandError{Code: 13, Message: "not authorized on voluhub"},
			want: PermissionDenied,
		},
		{
			name: "authentication failed",
			err:  mongo.CommandError{Code: 18, Message: "Authentication failed"},
			want: Unauthenticated,
		},
		{
			name: "max time expired",
			err:  mongo.CommandError{Code: 50, Message: "operation exceeded time limit"},
			want: DeadlineExceeded,
		},
		{
			name: "shutdown in progress",
			err:  mongo.CommandError{Code: 91, Message: "shutdown in progress"},
			want: Unavailable,
		},
		{
			name: "not writable primary",
			err:  mongo.CommandError{Code: 10107, Message: "not primary"},
			want: Unavailable,
		},
		{
			name: "too many requests",
			err:  mongo.CommandError{Code: 16500, Message: "throttled"},
			want: ResourceExhausted,
		},
		{
			name: "write conflict",
			err:  mongo.CommandError{Code: 112, Message: "WriteConflict"},
			want: FailedPrecondition,
		},
		{
			name: "network substring hint",
			err:  errors.New("dial tcp: connection refused"),
			want: Unavailable,
		},
		{
			name: "offline substring hint",
			err:  errors.New("client is offline"),
			want: Unavailable,
		},
		{
			name: "user profile substring hint",
			err:  errors.New("user profile missing"),
			want: NotFound,
		},
		{
			name: "timeout substring hint",
			err:  errors.New("operation timed out waiting for reply"),
			want: DeadlineExceeded,
		},
		{
			name: "unknown error",
			err:  errors.New("something odd happened"),
			want: Internal,
		},
		{
			name: "already classified",
			err:  New(SelfReferenceNotAllowed, "no self follows"),
			want: SelfReferenceNotAllowed,
		},
		{
			name: "wrapped classified error",
			err:  fmt.Errorf("follow: %w", New(AlreadyInState, "already following")),
			want: AlreadyInState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	transient := []Class{Unavailable, DeadlineExceeded, ResourceExhausted}
	for _, class := range transient {
		if !IsTransient(class) {
			t.Errorf("IsTransient(%v) = false, want true", class)
		}
	}

	permanent := []Class{
		PermissionDenied, NotFound, InvalidArgument, AlreadyExists,
		FailedPrecondition, SelfReferenceNotAllowed, AlreadyInState,
		Internal, Cancelled, DataLoss, Unauthenticated,
	}
	for _, class := range permanent {
		if IsTransient(class) {
			t.Errorf("IsTransient(%v) = true, want false", class)
		}
	}
}

func TestMessage_AlwaysHumanReadable(t *testing.T) {
	classes := []Class{
		PermissionDenied, NotFound, Unavailable, DeadlineExceeded,
		AlreadyExists, FailedPrecondition, InvalidArgument,
		ResourceExhausted, Unauthenticated, Cancelled, DataLoss,
		Internal, OutOfRange, Unimplemented, SelfReferenceNotAllowed,
		AlreadyInState,
	}
	for _, class := range classes {
		msg := Message(class)
		if msg == "" {
			t.Errorf("Message(%v) is empty", class)
		}
		if msg == string(class) {
			t.Errorf("Message(%v) leaks the raw class name", class)
		}
	}
}

func TestUserMessage_NeverLeaksStoreError(t *testing.T) {
	raw := mongo.CommandError{Code: 13, Message: "not authorized on voluhub to execute command"}
	msg := UserMessage(raw)
	if msg != Message(PermissionDenied) {
		t.Errorf("UserMessage = %q, want %q", msg, Message(PermissionDenied))
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := mongo.ErrNoDocuments
	wrapped := Wrap(fmt.Errorf("load: %w", cause))
	if wrapped.Class != NotFound {
		t.Fatalf("class = %v, want NotFound", wrapped.Class)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error lost its cause chain")
	}
}

func TestWrap_Idempotent(t *testing.T) {
	orig := New(FailedPrecondition, "event is full")
	if got := Wrap(orig); got != orig {
		t.Error("Wrap re-wrapped an already classified error")
	}
}
