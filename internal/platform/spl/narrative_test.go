package spl

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		everyTag bool
		want     string
	}{
		{"empty", "", false, ""},
		{"inline markup joins", `Risk of <content styleCode="bold">addiction</content>.`, false, "Risk of addiction."},
		{"paragraphs separate", `<paragraph>One</paragraph><paragraph>Two</paragraph>`, false, "One Two"},
		{"list items separate", `<list><item>A</item><item>B</item></list>`, false, "A B"},
		{"table cells separate", `<table><tbody><tr><td>1</td><td>2</td></tr></tbody></table>`, false, "1 2"},
		{"line break", `first<br/>second`, false, "first second"},
		{"whitespace collapses", "  a \n\t b   c  ", false, "a b c"},
		{"entities decode", `Nausea &amp; constipation`, false, "Nausea & constipation"},
		{"every tag", `Oxycodone<suffix>ER</suffix>`, true, "Oxycodone ER"},
		{"prefixed block", `<hl7:paragraph>x</hl7:paragraph>y`, false, "x y"},
		{"cdata text", `<paragraph><![CDATA[Risk of death]]></paragraph>`, false, "Risk of death"},
		{"cdata beside text", `Boxed <![CDATA[warning]]> text`, false, "Boxed warning text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plainText(tt.markup, tt.everyTag); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNullable(t *testing.T) {
	if nullable("   ") != nil {
		t.Error("expected nil for blank string")
	}
	if v := nullable(" x "); v == nil || *v != "x" {
		t.Errorf("expected trimmed 'x', got %v", v)
	}
}
