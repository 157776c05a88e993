package context

import "testing"

func TestSanitize_MasksStringsAndComments(t *testing.T) {
	cmd := `echo "rm -rf /" # rm -rf /`
	cls := Classify(cmd)
	san := Sanitize(cls)
	if len(san) != len(cmd) {
		t.Fatalf("sanitized length %d != %d", len(san), len(cmd))
	}
	if containsLiteral(san, "rm -rf /") {
		t.Errorf("sanitized output still contains destructive literal: %q", san)
	}
}

func TestClassify_QuotedSubcommandIsCode(t *testing.T) {
	cmd := `git "reset" --hard`
	cls := Classify(cmd)
	san := Sanitize(cls)
	if san != cmd {
		t.Errorf("quoted subcommand should remain unmasked, got %q", san)
	}
}

func TestClassify_InlineCodeWithInterveningFlag(t *testing.T) {
	cmd := `python -u -c "import os; os.system('rm -rf /')"`
	cls := Classify(cmd)
	if len(cls.InlineCodes) != 1 {
		t.Fatalf("expected 1 inline code span, got %d: %+v", len(cls.InlineCodes), cls.InlineCodes)
	}
	body := cls.InlineCodes[0].Text(cmd)
	if body != `import os; os.system('rm -rf /')` {
		t.Errorf("unexpected inline body: %q", body)
	}
}

func TestClassify_HeredocSpacedQuotedDelimiter(t *testing.T) {
	cmd := "python3 <<\"EOF SPACE\"\nimport shutil\nshutil.rmtree('/')\nEOF SPACE"
	cls := Classify(cmd)
	if len(cls.Heredocs) != 1 {
		t.Fatalf("expected 1 heredoc span, got %d", len(cls.Heredocs))
	}
	body := cls.Heredocs[0].Text(cmd)
	if body != "import shutil\nshutil.rmtree('/')\n" {
		t.Errorf("unexpected heredoc body: %q", body)
	}
}

func TestClassify_UnterminatedQuoteIsIncomplete(t *testing.T) {
	cls := Classify(`echo "unterminated`)
	if !cls.Incomplete {
		t.Errorf("expected Incomplete=true for unterminated quote")
	}
}

func TestClassify_SpansCoverEntireCommand(t *testing.T) {
	cmds := []string{
		`git reset --hard`,
		`echo "hi" # comment`,
		`python3 <<"EOF"` + "\nbody\nEOF",
		`python -u -c "print(1)"`,
	}
	for _, cmd := range cmds {
		cls := Classify(cmd)
		pos := 0
		for _, s := range cls.Spans {
			if s.Start != pos {
				t.Fatalf("%q: gap/overlap at %d (span starts at %d)", cmd, pos, s.Start)
			}
			pos = s.End
		}
		if pos != len(cmd) {
			t.Fatalf("%q: spans cover %d of %d bytes", cmd, pos, len(cmd))
		}
	}
}

func containsLiteral(s, lit string) bool {
	for i := 0; i+len(lit) <= len(s); i++ {
		if s[i:i+len(lit)] == lit {
			return true
		}
	}
	return false
}
