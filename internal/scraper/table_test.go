package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		wantErr  bool
		validate func(*testing.T, []Row)
	}{
		{
			name: "single valid row",
			markdown: `# Listings
| Company | Role | Location |
| --- |
| [Acme](https://acme.com) | SWE Intern | NYC | https://acme.com/apply | 2025-01-01 |
`,
			validate: func(t *testing.T, rows []Row) {
				require.Len(t, rows, 1)
				assert.Equal(t, "Acme", rows[0].Company)
				assert.Equal(t, "SWE Intern", rows[0].Role)
				assert.Equal(t, "NYC", rows[0].Location)
				assert.Equal(t, "https://acme.com/apply", rows[0].URL)
				assert.Equal(t, "2025-01-01", rows[0].DatePosted)
			},
		},
		{
			name: "href link cell",
			markdown: `| Company | Role | Location |
| --- |
| Acme | SWE Intern | NYC | <a href="https://x.com/apply">Apply</a> |
`,
			validate: func(t *testing.T, rows []Row) {
				require.Len(t, rows, 1)
				assert.Equal(t, "https://x.com/apply", rows[0].URL)
			},
		},
		{
			name: "paren link cell",
			markdown: `| Company | Role | Location |
| --- |
| Acme | SWE Intern | NYC | (https://y.com/apply) |
`,
			validate: func(t *testing.T, rows []Row) {
				require.Len(t, rows, 1)
				assert.Equal(t, "https://y.com/apply", rows[0].URL)
			},
		},
		{
			name: "row with only two cells is dropped",
			markdown: `| Company | Role | Location |
| --- |
| Acme | SWE Intern |
| Beta | QA Intern | SF | https://beta.io/apply |
`,
			validate: func(t *testing.T, rows []Row) {
				require.Len(t, rows, 1)
				assert.Equal(t, "Beta", rows[0].Company)
			},
		},
		{
			name: "row without resolvable link is dropped",
			markdown: `| Company | Role | Location |
| --- |
| Acme | SWE Intern | NYC | Closed |
| Acme | SWE Intern | NYC |
`,
			validate: func(t *testing.T, rows []Row) {
				assert.Empty(t, rows)
			},
		},
		{
			name: "blank lines inside table are skipped",
			markdown: `| Company | Role | Location |
| --- |

| Acme | SWE Intern | NYC | https://acme.com/apply |

| Beta | QA Intern | SF | https://beta.io/apply |
`,
			validate: func(t *testing.T, rows []Row) {
				assert.Len(t, rows, 2)
			},
		},
		{
			name:     "document without any table yields zero rows",
			markdown: "# Nothing here\njust prose\n",
			validate: func(t *testing.T, rows []Row) {
				assert.Empty(t, rows)
			},
		},
		{
			name: "reordered columns fail ingestion",
			markdown: `| Role | Company | Location | Link |
| --- | --- | --- | --- |
| SWE Intern | Acme | NYC | https://acme.com/apply |
`,
			wantErr: true,
		},
		{
			name: "unrelated table before the listing is ignored",
			markdown: `# Stats
| Month | Added | Removed |
| --- | --- | --- |
| Aug | 12 | 3 |

| Company | Role | Location |
| --- |
| Acme | SWE Intern | NYC | https://acme.com/apply |
`,
			validate: func(t *testing.T, rows []Row) {
				require.Len(t, rows, 1)
				assert.Equal(t, "Acme", rows[0].Company)
			},
		},
		{
			name: "lines before the header are ignored",
			markdown: `Some intro text with | a stray pipe
| Company | Role | Location |
| --- |
| Acme | SWE Intern | NYC | https://acme.com/apply |
`,
			validate: func(t *testing.T, rows []Row) {
				assert.Len(t, rows, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseTable(tt.markdown)
			if tt.wantErr {
				require.Error(t, err)
				var schemaErr *UnrecognizedSchemaError
				assert.ErrorAs(t, err, &schemaErr)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, rows)
			}
		})
	}
}

func TestExtractLink(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{name: "href attribute", cell: `<a href="https://x.com/apply">Apply</a>`, want: "https://x.com/apply"},
		{name: "markdown style", cell: "(https://y.com/apply)", want: "https://y.com/apply"},
		{name: "bare URL", cell: "https://z.com/apply", want: "https://z.com/apply"},
		{name: "no URL", cell: "Closed", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractLink(tt.cell))
		})
	}
}
