package git

import "testing"

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name                        string
		ctype, scope, subject, body string
		want                        string
	}{
		{
			name:    "Type And Scope",
			ctype:   CommitTypeChore,
			scope:   "notes",
			subject: "save 3 notes",
			want:    "chore(notes): save 3 notes\n\n" + Footer,
		},
		{
			name:    "Default Type",
			subject: "save 1 notes",
			want:    "chore: save 1 notes\n\n" + Footer,
		},
		{
			name:    "Body Is Trimmed",
			ctype:   CommitTypeFix,
			subject: "restore file",
			body:    "\n  replaced unreadable file  \n",
			want:    "fix: restore file\n\nreplaced unreadable file\n\n" + Footer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMessage(tt.ctype, tt.scope, tt.subject, tt.body); got != tt.want {
				t.Errorf("FormatMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
