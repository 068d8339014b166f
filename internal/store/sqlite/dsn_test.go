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
		{name: "absolute", dsn: "sqlite:///var/lib/clansim/clan.db", want: "/var/lib/clansim/clan.db"},
		{name: "relative", dsn: "sqlite://clan.db", want: "./clan.db"},
		{name: "dot relative", dsn: "sqlite://./data/clan.db", want: "./data/clan.db"},
		{name: "escaped", dsn: "sqlite://my%20clan.db", want: "./my clan.db"},
		{name: "query", dsn: "sqlite://clan.db?_txlock=immediate", want: "./clan.db?_txlock=immediate"},
		{name: "wrong scheme", dsn: "postgres://localhost/clan", wantErr: true},
		{name: "no path", dsn: "sqlite://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDSN(%q) = %q, want error", tt.dsn, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDSN(%q): %v", tt.dsn, err)
			}
			if got != tt.want {
				t.Errorf("parseDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}
