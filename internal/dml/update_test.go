package dml

import "testing"

func TestUpdateStandalone(t *testing.T) {
	got := Update("users").
		Set("name", "Ada").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", 7)).
		Render()
	want := "UPDATE users SET name = 'Ada', updated_at = NOW() WHERE id = 7"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestUpdateWithoutTable(t *testing.T) {
	got := (&UpdateStatement{}).SetExpr("name", "EXCLUDED.name").Render()
	want := "UPDATE SET name = EXCLUDED.name"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestConflictClauseRender(t *testing.T) {
	tests := []struct {
		name   string
		clause *ConflictClause
		want   string
	}{
		{
			"targets_only",
			NewConflictClause("email", "tenant_id"),
			"(email, tenant_id)",
		},
		{
			"targets_and_where",
			NewConflictClause("email").Where(IsNull("deleted_at"), Eq("active", true)),
			"(email) WHERE deleted_at IS NULL AND active = TRUE",
		},
		{
			"where_only",
			NewConflictClause().Where(RawPredicate("email <> ''")),
			"WHERE email <> ''",
		},
		{
			"empty",
			NewConflictClause(),
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clause.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		want string
	}{
		{"eq", Eq("age", 30), "age = 30"},
		{"eq_nil", Eq("age", nil), "age IS NULL"},
		{"ne", Ne("name", "x"), "name <> 'x'"},
		{"ne_nil", Ne("name", nil), "name IS NOT NULL"},
		{"gt", Gt("age", 18), "age > 18"},
		{"ge", Ge("age", 18), "age >= 18"},
		{"lt", Lt("age", 65), "age < 65"},
		{"le", Le("age", 65), "age <= 65"},
		{"in", In("kind", "a", "b"), "kind IN ('a', 'b')"},
		{"is_null", IsNull("deleted_at"), "deleted_at IS NULL"},
		{"not_null", NotNull("email"), "email IS NOT NULL"},
		{"raw", RawPredicate("1 = 1"), "1 = 1"},
		{"reserved_column", Eq("order", 1), `"order" = 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred.SQL(); got != tt.want {
				t.Errorf("SQL() = %q, want %q", got, tt.want)
			}
		})
	}
}
