package domain

import (
	"errors"
	"testing"
)

func TestPostSubmissionValidate(t *testing.T) {
	tests := []struct {
		name      string
		sub       PostSubmission
		wantErr   bool
		wantField string
	}{
		{
			name: "note needs nothing extra",
			sub:  PostSubmission{Type: TypeNote, Title: "hi"},
		},
		{
			name:      "response without target url",
			sub:       PostSubmission{Type: TypeResponse, Title: "x"},
			wantErr:   true,
			wantField: "target_url",
		},
		{
			name: "response with target url",
			sub:  PostSubmission{Type: TypeResponse, TargetURL: "https://example.com/a"},
		},
		{
			name:      "bookmark without target url",
			sub:       PostSubmission{Type: TypeBookmark, Title: "x"},
			wantErr:   true,
			wantField: "target_url",
		},
		{
			name:      "media without media url",
			sub:       PostSubmission{Type: TypeMedia, Title: "x"},
			wantErr:   true,
			wantField: "media_url",
		},
		{
			name: "media with media url",
			sub:  PostSubmission{Type: TypeMedia, MediaURL: "https://cdn.example.com/a.png"},
		},
		{
			name:      "unknown type",
			sub:       PostSubmission{Type: "essay"},
			wantErr:   true,
			wantField: "type",
		},
		{
			name:      "bad response type",
			sub:       PostSubmission{Type: TypeResponse, TargetURL: "https://x.test", ResponseType: "quote"},
			wantErr:   true,
			wantField: "response_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("Validate() error type = %T, want *ValidationError", err)
				}
				if verr.Field != tt.wantField {
					t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
				}
			}
		})
	}
}

func TestEffectiveResponseType(t *testing.T) {
	sub := PostSubmission{Type: TypeResponse, TargetURL: "https://x.test"}
	if got := sub.EffectiveResponseType(); got != ResponseReply {
		t.Errorf("EffectiveResponseType() = %q, want reply default", got)
	}

	sub.ResponseType = ResponseLike
	if got := sub.EffectiveResponseType(); got != ResponseLike {
		t.Errorf("EffectiveResponseType() = %q, want like", got)
	}
}
