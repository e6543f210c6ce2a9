package sqlite

import "testing"

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		want    string
		wantErr bool
	}{
		{name: "memory", dsn: "sqlite://:memory:", want: ":memory:"},
		{name: "relative dot", dsn: "sqlite://./sidequest.db", want: "./sidequest.db"},
		{name: "relative bare", dsn: "sqlite://data/cards.db", want: "./data/cards.db"},
		{name: "absolute", dsn: "sqlite:///var/lib/sidequest.db", want: "/var/lib/sidequest.db"},
		{name: "escaped with query", dsn: "sqlite://my%20cards.db?_pragma=foo", want: "./my cards.db?_pragma=foo"},
		{name: "wrong scheme", dsn: "postgres://localhost/db", wantErr: true},
		{name: "no path", dsn: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDSN(%q) expected error", tt.dsn)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDSN(%q) error: %v", tt.dsn, err)
			}
			if got != tt.want {
				t.Errorf("parseDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}
