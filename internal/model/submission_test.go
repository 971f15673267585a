package model

import "testing"

func TestResolveUserID(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitRequest
		want int64
	}{
		{"snake case only", SubmitRequest{UserID: 7}, 7},
		{"alias only", SubmitRequest{UserIDAlias: 42}, 42},
		{"snake case wins", SubmitRequest{UserID: 7, UserIDAlias: 42}, 7},
		{"neither", SubmitRequest{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.ResolveUserID()
			if tt.req.UserID != tt.want || tt.req.UserIDAlias != 0 {
				t.Fatalf("got UserID=%d alias=%d, want %d", tt.req.UserID, tt.req.UserIDAlias, tt.want)
			}
		})
	}
}
