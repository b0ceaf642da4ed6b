package config

import (
	"strings"
	"testing"
)

func TestParse_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "NoTiers",
			content: "[[boundaries]]\npublic = [\"pkg/\"]\ninternal = [\"internal/\"]\n",
			wantErr: "at least one [[tiers]]",
		},
		{
			name:    "NoBoundaries",
			content: "[[tiers]]\npattern = \"cmd/\"\ntier = 1\n",
			wantErr: "at least one [[boundaries]]",
		},
		{
			name:    "EmptyTierPattern",
			content: "[[tiers]]\npattern = \"\"\ntier = 1\n" + boundaryBlock,
			wantErr: "tiers[0].pattern must not be empty",
		},
		{
			name:    "UnknownMatch",
			content: "[[tiers]]\npattern = \"cmd/\"\ntier = 1\nmatch = \"regex\"\n" + boundaryBlock,
			wantErr: "tiers[0].match",
		},
		{
			name:    "BadGlob",
			content: "[[tiers]]\npattern = \"cmd/[\"\ntier = 1\nmatch = \"glob\"\n" + boundaryBlock,
			wantErr: "tiers[0].pattern",
		},
		{
			name:    "BoundaryWithoutInternal",
			content: tierBlock + "[[boundaries]]\npublic = [\"pkg/\"]\n",
			wantErr: "boundaries[0].internal",
		},
		{
			name:    "BoundaryWithoutPublic",
			content: tierBlock + "[[boundaries]]\ninternal = [\"internal/\"]\n",
			wantErr: "boundaries[0].public",
		},
		{
			name:    "DuplicateBoundary",
			content: tierBlock + "[[boundaries]]\nname = \"a\"\npublic = [\"p\"]\ninternal = [\"i\"]\n[[boundaries]]\nname = \"a\"\npublic = [\"p\"]\ninternal = [\"i\"]\n",
			wantErr: "duplicate boundary name",
		},
		{
			name:    "Strategy",
			content: tierBlock + boundaryBlock + "[cycles]\nstrategy = \"bfs\"\n",
			wantErr: "cycles.strategy",
		},
		{
			name:    "Threshold",
			content: tierBlock + boundaryBlock + "[cycles]\nscc_threshold = -1\n",
			wantErr: "cycles.scc_threshold",
		},
		{
			name:    "Format",
			content: tierBlock + boundaryBlock + "[output]\nformat = \"html\"\n",
			wantErr: "output.format",
		},
		{
			name:    "Version",
			content: "version = 3\n" + tierBlock + boundaryBlock,
			wantErr: "unsupported config version",
		},
		{
			name:    "Separator",
			content: "[project]\nseparator = \" \"\n" + tierBlock + boundaryBlock,
			wantErr: "project.separator",
		},
		{
			name:    "Extractor",
			content: "[project]\nextractor = \"ast\"\n" + tierBlock + boundaryBlock,
			wantErr: "project.extractor",
		},
		{
			name:    "PackagesNonGo",
			content: "[project]\nlanguage = \"python\"\n" + tierBlock + boundaryBlock,
			wantErr: "only supports language",
		},
		{
			name:    "SourceLanguage",
			content: "[project]\nextractor = \"source\"\nlanguage = \"rust\"\n" + tierBlock + boundaryBlock,
			wantErr: "project.language",
		},
		{
			name:    "RechecksPerMinute",
			content: tierBlock + boundaryBlock + "[watch]\nmax_rechecks_per_minute = -2\n",
			wantErr: "watch.max_rechecks_per_minute",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tc.content)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

const tierBlock = "[[tiers]]\npattern = \"cmd/\"\ntier = 1\n"

const boundaryBlock = "[[boundaries]]\npublic = [\"pkg/\"]\ninternal = [\"internal/\"]\n"
