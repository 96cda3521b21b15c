package filter

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		aliases  []string
		expected int
	}{
		{
			name:     "Exact match",
			columns:  []string{"ID", "Description"},
			aliases:  []string{"id"},
			expected: 0,
		},
		{
			name:     "Case insensitive",
			columns:  []string{"USER STORY ID", "Desc"},
			aliases:  []string{"user story id"},
			expected: 0,
		},
		{
			name:     "Trims whitespace",
			columns:  []string{"  Topic  ", "No"},
			aliases:  []string{"topic"},
			expected: 0,
		},
		{
			name:     "Alias priority beats column order",
			columns:  []string{"id", "story id"},
			aliases:  []string{"story id", "id"},
			expected: 1,
		},
		{
			name:     "Falls through to later alias",
			columns:  []string{"Name", "Number"},
			aliases:  []string{"no", "number"},
			expected: 1,
		},
		{
			name:     "No match",
			columns:  []string{"Alpha", "Beta"},
			aliases:  []string{"id", "key"},
			expected: -1,
		},
		{
			name:     "Substring is not a match",
			columns:  []string{"Story ID Number"},
			aliases:  []string{"story id"},
			expected: -1,
		},
		{
			name:     "Empty columns",
			columns:  nil,
			aliases:  []string{"id"},
			expected: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.columns, tt.aliases)
			if got != tt.expected {
				t.Errorf("Resolve(%v, %v) = %d; want %d", tt.columns, tt.aliases, got, tt.expected)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	columns := []string{"Key", "Summary", "Topic", "No"}
	aliases := []string{"id", "key"}

	first := Resolve(columns, aliases)
	for i := 0; i < 10; i++ {
		if got := Resolve(columns, aliases); got != first {
			t.Fatalf("Resolve changed answer on run %d: %d vs %d", i, got, first)
		}
	}
}

func TestDefaultMapping(t *testing.T) {
	t.Run("All fields resolved", func(t *testing.T) {
		m := DefaultMapping([]string{"No", "Topic Group", "User Story ID", "Description"})
		if m.ID != 2 || m.Description != 3 || m.Topic != 1 || m.Number != 0 {
			t.Errorf("DefaultMapping = %+v; want ID=2 Description=3 Topic=1 Number=0", m)
		}
		if !m.Complete() {
			t.Error("expected mapping to be complete")
		}
	})

	t.Run("Unresolved fields stay unset", func(t *testing.T) {
		m := DefaultMapping([]string{"Alpha", "Beta"})
		if m.ID != -1 || m.Description != -1 || m.Topic != -1 || m.Number != -1 {
			t.Errorf("DefaultMapping = %+v; want all -1", m)
		}
		if m.Complete() {
			t.Error("expected mapping to be incomplete")
		}
	})

	t.Run("Narrow table never panics", func(t *testing.T) {
		m := DefaultMapping([]string{"summary"})
		if m.Description != 0 {
			t.Errorf("Description = %d; want 0", m.Description)
		}
		if m.ID != -1 || m.Topic != -1 || m.Number != -1 {
			t.Errorf("DefaultMapping = %+v; want the other fields -1", m)
		}
	})
}
