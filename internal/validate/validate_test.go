package validate

import (
	"strings"
	"testing"

	"clansim/internal/cat"
	"clansim/internal/catalog"
	"clansim/internal/config"
	"clansim/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Silence()
	m.Run()
}

func runFixture(t *testing.T) *Report {
	t.Helper()
	report, err := Run(catalog.NewSource("testdata/lang", "en", ""), config.DefaultVocabulary())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return report
}

func findIssue(report *Report, code, entry string) (Issue, bool) {
	for _, issue := range report.Issues {
		if issue.Code == code && issue.Entry == entry {
			return issue, true
		}
	}
	return Issue{}, false
}

func countCode(issues []Issue, code string) int {
	n := 0
	for _, issue := range issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}

func TestRun_InvalidEntry(t *testing.T) {
	report := runFixture(t)

	issue, ok := findIssue(report, codeInvalidEntry, "like_bad_trait")
	if !ok {
		t.Fatalf("expected invalid entry issue, got %+v", report.Issues)
	}
	if issue.Severity != SeverityError {
		t.Fatalf("expected error severity, got %s", issue.Severity)
	}
	if !strings.Contains(issue.File, "like/increase.json") {
		t.Fatalf("expected file path, got %q", issue.File)
	}
	// Entries after a bad one are still checked.
	if _, ok := findIssue(report, codeDanglingPlaceholder, "like_ghost"); !ok {
		t.Fatalf("expected later entries to be linted")
	}
}

func TestRun_DuplicateID(t *testing.T) {
	report := runFixture(t)

	issue, ok := findIssue(report, codeDuplicateID, "like_share_prey")
	if !ok {
		t.Fatalf("expected duplicate id issue")
	}
	if issue.Severity != SeverityError {
		t.Fatalf("expected error severity, got %s", issue.Severity)
	}
}

func TestRun_DanglingPlaceholder(t *testing.T) {
	report := runFixture(t)

	tests := []struct {
		entry string
		role  string
	}{
		{"like_ghost", "r_c1"},
		{"group_crowd", "r_c3"},
		{"forest_argument", "r_c"},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			issue, ok := findIssue(report, codeDanglingPlaceholder, tt.entry)
			if !ok {
				t.Fatalf("expected dangling placeholder issue")
			}
			if issue.Severity != SeverityWarn || !strings.Contains(issue.Message, tt.role) {
				t.Fatalf("unexpected issue %+v", issue)
			}
		})
	}

	for _, clean := range []string{"like_share_prey", "group_patrol", "forest_tree_fall"} {
		if _, ok := findIssue(report, codeDanglingPlaceholder, clean); ok {
			t.Fatalf("did not expect a placeholder issue for %s", clean)
		}
	}
}

func TestRun_WrongBiome(t *testing.T) {
	report := runFixture(t)

	if _, ok := findIssue(report, codeWrongBiome, "forest_sand_fall"); !ok {
		t.Fatalf("expected wrong biome issue")
	}
	if _, ok := findIssue(report, codeWrongBiome, "forest_tree_fall"); ok {
		t.Fatalf("did not expect wrong biome issue for a forest event")
	}
}

func TestRun_UnknownReference(t *testing.T) {
	report := runFixture(t)

	issue, ok := findIssue(report, codeUnknownReference, "forest_argument")
	if !ok {
		t.Fatalf("expected unknown reference issue")
	}
	if !strings.Contains(issue.Message, "misc_nowhere") {
		t.Fatalf("expected the missing id in the message, got %q", issue.Message)
	}
	if countCode(report.Warnings(), codeUnknownReference) != 1 {
		t.Fatalf("expected only misc_nowhere to be unknown")
	}
}

func TestRun_Files(t *testing.T) {
	report := runFixture(t)

	if n := countCode(report.Errors(), codeUnreadableFile); n != 1 {
		t.Fatalf("expected one unreadable file, got %d", n)
	}
	// Nine of the ten normal interaction files are absent; event files are optional.
	if n := countCode(report.Warnings(), codeMissingFile); n != 9 {
		t.Fatalf("expected 9 missing files, got %d", n)
	}
	if n := len(report.Errors()); n != 3 {
		t.Fatalf("expected 3 errors, got %d: %+v", n, report.Errors())
	}
}

func TestRun_Vocabulary(t *testing.T) {
	vocab := config.DefaultVocabulary()
	vocab.Compatibility["wise"] = cat.TraitAffinity{Positive: []string{"sparkly"}}

	report, err := Run(catalog.NewSource(t.TempDir(), "en", ""), vocab)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	issue, ok := findIssue(report, codeUnknownTrait, "wise")
	if !ok || !strings.Contains(issue.Message, "sparkly") {
		t.Fatalf("expected unknown trait issue, got %+v", report.Issues)
	}
}

func TestRun_RequiresInputs(t *testing.T) {
	if _, err := Run(nil, config.DefaultVocabulary()); err == nil {
		t.Fatalf("expected error without a source")
	}
	if _, err := Run(catalog.NewSource("testdata/lang", "en", ""), nil); err == nil {
		t.Fatalf("expected error without a vocabulary")
	}
}
