package ast

import "testing"

func TestParseNumberLiteralKinds(t *testing.T) {
	cases := []struct {
		lexeme string
		want   NodeType
	}{
		{lexeme: "5", want: NodeWholeLiteral},
		{lexeme: "0", want: NodeWholeLiteral},
		{lexeme: "+5", want: NodeIntegerLiteral},
		{lexeme: "-5", want: NodeIntegerLiteral},
		{lexeme: "5.0", want: NodeFloatLiteral},
		{lexeme: "-0.25", want: NodeFloatLiteral},
	}
	for _, tc := range cases {
		lit, err := ParseNumberLiteral(tc.lexeme)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.lexeme, err)
		}
		if lit.NodeType() != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.lexeme, tc.want, lit.NodeType())
		}
	}
}

func TestParseNumberLiteralValues(t *testing.T) {
	lit, err := ParseNumberLiteral("+42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	intLit, ok := lit.(*IntegerLiteral)
	if !ok || intLit.Value != 42 {
		t.Fatalf("expected integer 42, got %#v", lit)
	}
	lit, err = ParseNumberLiteral("18446744073709551615")
	if err != nil {
		t.Fatalf("parse max whole: %v", err)
	}
	if w, ok := lit.(*WholeLiteral); !ok || w.Value != ^uint64(0) {
		t.Fatalf("expected max whole, got %#v", lit)
	}
}

func TestParseNumberLiteralRejectsInvalid(t *testing.T) {
	for _, lexeme := range []string{"", "abc", "18446744073709551616", "+9223372036854775808", "1.2.3"} {
		if _, err := ParseNumberLiteral(lexeme); err == nil {
			t.Fatalf("%q: expected error", lexeme)
		}
	}
}

func TestTypeNameValid(t *testing.T) {
	for _, name := range []TypeName{TypeInteger, TypeWhole, TypeFloat, TypeBoolean, TypeText, TypeFunction} {
		if !name.Valid() {
			t.Fatalf("%s should be valid", name)
		}
	}
	if TypeName("string").Valid() {
		t.Fatalf("string should not be a valid type name")
	}
}
