package room

import "testing"

func TestMembership_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   Membership
		want string
	}{
		{name: "username", in: Membership{UserID: "user-ana", Username: "ana"}, want: "ana"},
		{name: "missing username", in: Membership{UserID: "user-ana"}, want: "user-ana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.DisplayName(); got != tt.want {
				t.Fatalf("unexpected display name: got=%q want=%q", got, tt.want)
			}
		})
	}
}
