package main

import "testing"

func TestRootCommand_Subcommands(t *testing.T) {
	want := map[string]bool{"filter": false, "serve": false}

	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestFilterCommand_ArgsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"too few", []string{"in.csv"}, true},
		{"input and output", []string{"in.csv", "out.csv"}, false},
		{"with extensions", []string{"in.csv", "out.csv", "com,net"}, false},
		{"too many", []string{"in.csv", "out.csv", "com", "extra"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := filterCmd.Args(filterCmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestServeCommand_RejectsArgs(t *testing.T) {
	if err := serveCmd.Args(serveCmd, []string{"extra"}); err == nil {
		t.Error("serve accepted positional args, want error")
	}
}
