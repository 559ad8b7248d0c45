package user

import "testing"

func TestDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		user User
		want string
	}{
		{"both names", User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"first only", User{Username: "jdoe", FirstName: "Jane"}, "Jane"},
		{"last only", User{Username: "jdoe", LastName: "Doe"}, "Doe"},
		{"no names falls back to username", User{Username: "jdoe"}, "jdoe"},
		{"whitespace names fall back to username", User{Username: "jdoe", FirstName: " ", LastName: " "}, "jdoe"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Fatalf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
