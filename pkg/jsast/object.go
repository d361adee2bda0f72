package jsast

import (
	"strings"
)

// Entries returns the entries of an object literal: pairs, methods,
// shorthand properties and spreads.
func Entries(obj *Node) []*Node {
	if obj == nil {
		return nil
	}

	entries := make([]*Node, 0, len(obj.Children))

	for _, child := range obj.Children {
		if child.Named {
			entries = append(entries, child)
		}
	}

	return entries
}

// PropertyName returns the static key of an object entry. Computed keys and
// spreads return "".
func PropertyName(entry *Node) string {
	switch entry.Type {
	case TypeShorthandProperty, TypeShorthandPattern:
		return entry.Token
	case TypePair, TypePairPattern:
		return keyName(entry.ChildByField("key"))
	case TypeMethodDefinition:
		return keyName(entry.ChildByField("name"))
	default:
		return ""
	}
}

func keyName(key *Node) string {
	switch {
	case key == nil:
		return ""
	case key.Is(TypeString):
		return StringValue(key)
	case key.Is(TypeComputedPropertyName):
		return ""
	default:
		return key.Text()
	}
}

// SetPropertyName renames the static key of an entry and returns the entry
// now holding the name. Shorthand entries are expanded into pairs so that the
// referenced binding stays the same.
func SetPropertyName(entry *Node, name string) *Node {
	keyText := name
	if !IsIdentifierName(name) {
		keyText = Quote(name)
	}

	switch entry.Type {
	case TypeShorthandProperty:
		pair := MustEntry(keyText + ": " + entry.Token)
		if !entry.Replace(pair) {
			pair.SetLeadingTrivia(entry.LeadingTrivia())
		}

		return pair
	case TypePair:
		replaceKey(entry.ChildByField("key"), keyText)
	case TypeMethodDefinition:
		replaceKey(entry.ChildByField("name"), keyText)
	}

	return entry
}

func replaceKey(key *Node, keyText string) {
	if key == nil {
		return
	}

	if key.IsLeaf() && key.Type == TypePropertyIdentifier && IsIdentifierName(keyText) {
		key.Token = keyText

		return
	}

	fresh := MustEntry(keyText + ": 0").ChildByField("key")
	key.Replace(fresh)
}

// EntryValue returns the value expression of a pair, or nil.
func EntryValue(entry *Node) *Node {
	if !entry.Is(TypePair) {
		return nil
	}

	return entry.ChildByField("value")
}

// FindEntry returns the first entry of obj with the given static key.
func FindEntry(obj *Node, name string) *Node {
	for _, entry := range Entries(obj) {
		if PropertyName(entry) == name {
			return entry
		}
	}

	return nil
}

// AppendEntry adds entry as the last element of obj, managing commas and
// placing it on its own line. A multi-line entry moved from elsewhere is
// re-indented and keeps the comments around it.
func AppendEntry(obj, entry *Node) {
	closing := closingBrace(obj)
	if closing < 0 {
		return
	}

	closingNode := obj.Children[closing]
	entries := Entries(obj)
	baseIndent := LineIndent(obj)
	from := LineIndent(entry)
	own := entry.LeadingTrivia()
	sameLine, lines := trailingComments(entry)

	entry.Detach()

	if len(entries) == 0 {
		inner := baseIndent + indentUnit

		placeEntry(entry, own, from, inner)
		obj.InsertChild(closing, entry)
		closingNode.Lead = carryComments("\n"+baseIndent, sameLine, lines, inner, baseIndent)

		return
	}

	last := entries[len(entries)-1]
	lastSame, lastLines := trailingComments(last)

	inner := baseIndent + indentUnit
	if lead := entryLead(entries, baseIndent); strings.Contains(lead, "\n") {
		inner = lastLineIndent(lead)
		placeEntry(entry, own, from, inner)
	} else {
		entry.SetLeadingTrivia(lead)
	}

	entry.SetLeadingTrivia(carryComments(entry.LeadingTrivia(), lastSame, lastLines, inner, inner))
	closingNode.Lead = carryComments(closingNode.Lead, sameLine, lines, inner, baseIndent)

	next := last.NextSibling()
	if next != nil && next.Type == "," {
		obj.InsertChild(next.Index()+1, entry, NewLeaf(",", ",", false))

		return
	}

	obj.InsertChild(last.Index()+1, NewLeaf(",", ",", false), entry)
}

// InsertEntryBefore inserts entry in front of ref, which must be an entry of obj.
func InsertEntryBefore(obj, ref, entry *Node) {
	idx := ref.Index()
	if idx < 0 || ref.Parent != obj {
		AppendEntry(obj, entry)

		return
	}

	from := LineIndent(entry)
	own := entry.LeadingTrivia()
	lead := ref.LeadingTrivia()

	entry.Detach()

	if strings.Contains(lead, "\n") {
		placeEntry(entry, own, from, lastLineIndent(lead))
	} else {
		entry.SetLeadingTrivia(lead)
		ref.SetLeadingTrivia(" ")
	}

	obj.InsertChild(ref.Index(), entry, NewLeaf(",", ",", false))
}

// placeEntry puts a moved entry on its own line at indent.
func placeEntry(entry *Node, own, from, indent string) {
	Reindent(entry, from, indent)
	entry.SetLeadingTrivia(movedLead(own, indent))
}

// movedLead keeps the comment lines of lead, one per line at indent, and ends
// with a fresh line at indent.
func movedLead(lead, indent string) string {
	var buf strings.Builder

	for line := range strings.SplitSeq(lead, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		buf.WriteString("\n" + indent + line)
	}

	return buf.String() + "\n" + indent
}

// RemoveEntry removes an entry together with its separating comma.
func RemoveEntry(entry *Node) {
	obj := entry.Parent
	if obj == nil {
		return
	}

	if next := entry.NextSibling(); next != nil && next.Type == "," {
		if following := next.NextSibling(); following != nil && following.Named {
			following.SetLeadingTrivia(entry.LeadingTrivia())
		}

		next.Detach()
	} else if prev := entry.PrevSibling(); prev != nil && prev.Type == "," {
		prev.Detach()
	}

	entry.Detach()
}

// NewObject builds an object literal holding entries, one per line, indented
// one level deeper than indent. Entries are moved, not copied.
func NewObject(entries []*Node, indent string) *Node {
	obj := MustExpression("{}")
	if len(entries) == 0 {
		return obj
	}

	closing := obj.Children[len(obj.Children)-1]
	inner := indent + indentUnit

	children := make([]*Node, 0, 2*len(entries)) //nolint:mnd // entry and comma.

	var (
		sameLine string
		lines    []string
	)

	for idx, entry := range entries {
		from := LineIndent(entry)
		own := entry.LeadingTrivia()
		nextSame, nextLines := trailingComments(entry)

		entry.Detach()
		placeEntry(entry, own, from, inner)
		entry.SetLeadingTrivia(carryComments(entry.LeadingTrivia(), sameLine, lines, inner, inner))

		sameLine, lines = nextSame, nextLines

		children = append(children, entry)

		if idx < len(entries)-1 {
			children = append(children, NewLeaf(",", ",", false))
		}
	}

	obj.InsertChild(closing.Index(), children...)
	closing.Lead = carryComments("\n"+indent, sameLine, lines, inner, indent)

	return obj
}

// trailingComments takes the comments written after the last entry of an
// object, which sit in front of its closing brace. sameLine is the comment on
// the entry's own line; lines are the ones below it. The brace keeps only its
// indentation.
func trailingComments(entry *Node) (sameLine string, lines []string) {
	next := entry.NextSibling()
	if next != nil && next.Type == "," {
		next = next.NextSibling()
	}

	if next == nil || next.Type != "}" {
		return "", nil
	}

	lead := next.LeadingTrivia()
	parts := strings.Split(lead, "\n")
	sameLine = strings.TrimSpace(parts[0])

	for _, part := range parts[1:] {
		if line := strings.TrimSpace(part); line != "" {
			lines = append(lines, line)
		}
	}

	if sameLine == "" && len(lines) == 0 {
		return "", nil
	}

	if len(parts) > 1 {
		next.SetLeadingTrivia("\n" + lastLineIndent(lead))
	} else {
		next.SetLeadingTrivia(" ")
	}

	return sameLine, lines
}

// carryComments puts comments taken by trailingComments in front of lead,
// moving lead onto a fresh line at fallback when it has none.
func carryComments(lead, sameLine string, lines []string, indent, fallback string) string {
	if sameLine == "" && len(lines) == 0 {
		return lead
	}

	if !strings.Contains(lead, "\n") {
		lead = "\n" + fallback
	}

	var buf strings.Builder

	if sameLine != "" {
		buf.WriteString(" " + sameLine)
	}

	for _, line := range lines {
		buf.WriteString("\n" + indent + line)
	}

	return buf.String() + lead
}

const indentUnit = "  "

func closingBrace(obj *Node) int {
	for idx := len(obj.Children) - 1; idx >= 0; idx-- {
		if obj.Children[idx].Type == "}" {
			return idx
		}
	}

	return -1
}

func entryLead(entries []*Node, baseIndent string) string {
	for _, entry := range entries {
		if lead := entry.LeadingTrivia(); strings.Contains(lead, "\n") {
			return "\n" + lastLineIndent(lead)
		}
	}

	if len(entries) > 0 {
		return " "
	}

	return "\n" + baseIndent + indentUnit
}

// LineIndent returns the indentation of the line on which the node starts.
func LineIndent(targetNode *Node) string {
	for cur := targetNode; cur != nil; cur = cur.Parent {
		if lead := cur.LeadingTrivia(); strings.Contains(lead, "\n") {
			return lastLineIndent(lead)
		}

		if cur.Parent != nil && cur.Parent.FirstLeaf() != cur.FirstLeaf() {
			if indent, ok := precedingLineIndent(cur); ok {
				return indent
			}
		}
	}

	return ""
}

// precedingLineIndent scans the leaves before the node inside its parent for
// the newline that starts its line.
func precedingLineIndent(targetNode *Node) (string, bool) {
	parent := targetNode.Parent
	first := targetNode.FirstLeaf()
	leaves := Leaves(parent)

	var indent string

	found := false

	for _, leaf := range leaves {
		if leaf == first {
			break
		}

		if strings.Contains(leaf.Lead, "\n") {
			indent = lastLineIndent(leaf.Lead)
			found = true
		}
	}

	if !found {
		return "", false
	}

	return indent, true
}

func lastLineIndent(lead string) string {
	line := lead[strings.LastIndex(lead, "\n")+1:]

	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Reindent shifts the indentation of every line inside the node from prefix
// from to prefix to. The node's own leading trivia and template literal text
// are left alone.
func Reindent(targetNode *Node, from, to string) {
	if from == to {
		return
	}

	first := targetNode.FirstLeaf()

	Walk(targetNode, func(cur *Node) bool {
		if cur.Is(TypeTemplateString, TypeString) {
			return false
		}

		if cur.IsLeaf() && cur != first && strings.Contains(cur.Lead, "\n") {
			cur.Lead = reindentText(cur.Lead, from, to)
		}

		return true
	})
}

func reindentText(text, from, to string) string {
	lines := strings.Split(text, "\n")
	for idx := 1; idx < len(lines); idx++ {
		if rest, ok := strings.CutPrefix(lines[idx], from); ok {
			lines[idx] = to + rest
		}
	}

	return strings.Join(lines, "\n")
}
