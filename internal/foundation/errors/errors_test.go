package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "contentfeed.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "contentfeed.yaml" {
			t.Errorf("expected context file=contentfeed.yaml, got %v", file)
		}
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		if !HasCategory(err, CategoryConfig) {
			t.Error("expected error to have config category")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Error string includes cause", func(t *testing.T) {
		err := SourceUnavailableError("projects", errors.New("open projects.json: no such file")).Build()

		want := "source_unavailable: content source unavailable [store=projects]: open projects.json: no such file"
		if err.Error() != want {
			t.Errorf("unexpected error string: %s", err.Error())
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryRender, "feed rendering failed").
			Warning().
			WithContext("artifact", "blog/rss.xml").
			Build()

		if err.Category() != CategoryRender {
			t.Errorf("expected render category, got %s", err.Category())
		}
		if err.Severity() != SeverityWarning {
			t.Errorf("expected warning severity, got %s", err.Severity())
		}
		if !errors.Is(err, originalErr) {
			t.Error("expected wrapped error to match original")
		}
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		nf := NotFoundError("blog", "missing-post").Build()
		if nf.Category() != CategoryNotFound || nf.Severity() != SeverityInfo {
			t.Errorf("unexpected not found classification: %s/%s", nf.Category(), nf.Severity())
		}
		if id, _ := nf.Context().GetString("id"); id != "missing-post" {
			t.Errorf("expected id context, got %q", id)
		}

		md := MalformedDateError("Jan 45, 2024").Build()
		if md.Category() != CategoryMalformedDate {
			t.Errorf("expected malformed_date, got %s", md.Category())
		}
	})
}

func TestAsClassifiedThroughWrapping(t *testing.T) {
	inner := ValidationError("record missing title").WithContext("field", "title").Build()
	wrapped := fmt.Errorf("loading blog store: %w", inner)

	got, ok := AsClassified(wrapped)
	if !ok {
		t.Fatal("expected classified error in chain")
	}
	if got.Category() != CategoryValidation {
		t.Errorf("expected validation category, got %s", got.Category())
	}
	if GetCategory(errors.New("plain")) != CategoryInternal {
		t.Error("expected plain errors to report internal category")
	}
	if GetSeverity(wrapped) != SeverityFatal {
		t.Error("expected fatal severity from chain")
	}
}

func TestClassifiedErrorWithContextCopies(t *testing.T) {
	base := NewError(CategoryRender, "image failed").WithContext("kind", "team").Build()
	derived := base.WithContext("id", "alice")

	if _, ok := base.Context().Get("id"); ok {
		t.Error("WithContext must not mutate the original error")
	}
	if v, _ := derived.Context().GetString("kind"); v != "team" {
		t.Errorf("expected kind to carry over, got %q", v)
	}
}

func TestErrorContextMerge(t *testing.T) {
	var nilCtx ErrorContext
	other := ErrorContext{"a": 1}
	if got := nilCtx.Merge(other); got["a"] != 1 {
		t.Errorf("expected merge into nil to return other")
	}

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	if merged["a"] != 1 || merged["b"] != 3 {
		t.Errorf("unexpected merge result: %v", merged)
	}
}

func TestCategoryTraits(t *testing.T) {
	if got := CategoryNotFound.HTTPStatus(); got != 404 {
		t.Errorf("not_found status = %d", got)
	}
	if got := ErrorCategory("mystery").ExitCode(); got != 1 {
		t.Errorf("unknown category exit code = %d", got)
	}
	if NewError(CategorySourceUnavailable, "x").Build().Severity() != SeverityWarning {
		t.Error("source_unavailable should default to warning")
	}
	if CategoryRender.UserFacing() || !CategoryValidation.UserFacing() {
		t.Error("unexpected user-facing classification")
	}
}

func TestBuildSnapshotsContext(t *testing.T) {
	b := ValidationError("missing field").WithContext("store", "blog")
	first := b.Build()
	second := b.WithContext("field", "title").Build()

	if _, ok := first.Context().Get("field"); ok {
		t.Error("later WithContext leaked into an already built error")
	}
	if got := second.Context().Keys(); len(got) != 2 || got[0] != "field" || got[1] != "store" {
		t.Errorf("unexpected keys %v", got)
	}
	if first.Error() != "validation: missing field [store=blog]" {
		t.Errorf("unexpected error string %q", first.Error())
	}
}
