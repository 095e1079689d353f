package syntax

import (
	"bytes"
	"sort"
)

// Render re-emits the text of n from src.
//
// Every node is printed as its original span with each child slot replaced by the
// rendered child. For declaration bodies the slots are the members' original spans in
// source order, filled with the members in their current order; rewriting only permutes
// members, so this reproduces the reordered declaration. An untouched tree renders
// byte-identical to src[n.Bounds()].
func Render(src []byte, n Node) []byte {
	var buf bytes.Buffer
	buf.Grow(n.Bounds().Len())
	render(&buf, src, n)
	return buf.Bytes()
}

// Render returns the text of the file's current tree.
func (f *File) Render() []byte {
	if f.Root == nil {
		return append([]byte(nil), f.Source...)
	}
	root := f.Root.Bounds()
	var buf bytes.Buffer
	buf.Grow(len(f.Source))
	buf.Write(f.Source[:root.Start])
	render(&buf, f.Source, f.Root)
	buf.Write(f.Source[root.End:])
	return buf.Bytes()
}

func render(buf *bytes.Buffer, src []byte, n Node) {
	span := n.Bounds()
	kids := Children(n)
	if len(kids) == 0 {
		buf.Write(src[span.Start:span.End])
		return
	}
	if _, ok := Members(n); ok {
		renderBody(buf, src, n, kids)
		return
	}

	// Field order is not source order (Extra comes first); place each child in its own slot.
	sort.SliceStable(kids, func(i, j int) bool { return kids[i].Bounds().Start < kids[j].Bounds().Start })
	pos := span.Start
	for _, k := range kids {
		own := k.Bounds()
		if own.Start >= pos {
			buf.Write(src[pos:own.Start])
		}
		render(buf, src, k)
		if own.End > pos {
			pos = own.End
		}
	}
	if pos < span.End {
		buf.Write(src[pos:span.End])
	}
}

// renderBody fills the original member slots, in source order, with the members in their
// current order. A member that lands next to a different neighbour gets the separator it
// needs there, and no member ends up followed by two separators.
func renderBody(buf *bytes.Buffer, src []byte, n Node, kids []Node) {
	span := n.Bounds()
	slots := make([]Span, len(kids))
	parts := make([][]byte, len(kids))
	for i, k := range kids {
		slots[i] = k.Bounds()
		var b bytes.Buffer
		render(&b, src, k)
		parts[i] = b.Bytes()
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	_, class := n.(*ClassBody)

	pos := span.Start
	dropSep := false
	for i, k := range kids {
		slot := slots[i]
		if slot.Start >= pos {
			buf.Write(gapText(src[pos:slot.Start], dropSep))
			dropSep = false
		}

		text := parts[i]
		if needsSeparator(n, k) {
			next := span.End
			if i+1 < len(kids) {
				next = slots[i+1].Start
			}
			gapSep := bytes.ContainsAny(src[slot.End:next], ",;")
			at, own := separatorAt(src, k)
			cut := len(text) - (k.Bounds().End - at)
			switch {
			case own && gapSep && !class:
				dropSep = true
			case !own && !gapSep && i+1 < len(kids) && mustSeparate(src, n, kids, slots, parts, i):
				text = splice(text, cut, separatorFor(n))
			}
		}
		buf.Write(text)

		if slot.End > pos {
			pos = slot.End
		}
		// A member that ends in a line comment must not swallow what follows its new slot.
		if own := k.Bounds(); own != slot && endsInLineComment(src[own.Start:own.End]) && !newlineFollows(src, pos, dropSep) {
			buf.WriteByte('\n')
		}
	}
	if pos < span.End {
		buf.Write(gapText(src[pos:span.End], dropSep))
	}
}

// gapText returns the text between two slots, without its first separator when the
// member before it already brought one.
func gapText(gap []byte, dropSep bool) []byte {
	if !dropSep {
		return gap
	}
	j := bytes.IndexAny(gap, ",;")
	if j < 0 {
		return gap
	}
	out := make([]byte, 0, len(gap)-1)
	out = append(out, gap[:j]...)
	return append(out, gap[j+1:]...)
}

// needsSeparator reports whether member k of body n must be followed by `,` or `;`
// when another member comes after it. Methods in a class end with their body.
func needsSeparator(n, k Node) bool {
	if o, ok := k.(*Other); ok && o.Kind == "comment" {
		return false
	}
	switch n.(type) {
	case *ObjectLiteral:
		return true
	case *ClassBody:
		switch k.(type) {
		case *Field, *Signature:
			return true
		}
		return false
	}
	_, ok := k.(*Signature)
	return ok
}

func separatorFor(n Node) byte {
	if _, ok := n.(*ObjectLiteral); ok {
		return ','
	}
	return ';'
}

// mustSeparate decides whether member i, which has no separator of its own, needs one
// before member i+1. Object properties always do. Elsewhere a line break suffices unless
// the next member could continue the expression, and an unchanged pair is left as written.
func mustSeparate(src []byte, n Node, kids []Node, slots []Span, parts [][]byte, i int) bool {
	if _, ok := n.(*ObjectLiteral); ok {
		return true
	}
	if kids[i].Bounds() == slots[i] && kids[i+1].Bounds() == slots[i+1] {
		return false
	}
	if !bytes.ContainsAny(src[slots[i].End:slots[i+1].Start], "\n\r") {
		return true
	}
	next := firstToken(parts[i+1])
	return next == 0 || bytes.IndexByte([]byte("*[(<"), next) >= 0
}

// separatorAt returns the offset in src of k's own `,` or `;` and true, or, when k has
// none, the offset right after its code and false. Only punctuation and comments follow
// the last child of a member.
func separatorAt(src []byte, k Node) (int, bool) {
	own := k.Bounds()
	end := own.Start
	for _, c := range Children(k) {
		if e := c.Bounds().End; e > end && e <= own.End {
			end = e
		}
	}
	tail := src[end:own.End]
	code := tail
	if j := commentStart(tail); j >= 0 {
		code = tail[:j]
	}
	if j := bytes.IndexAny(code, ",;"); j >= 0 {
		return end + j, true
	}
	return end + len(bytes.TrimRight(code, " \t\r\n")), false
}

func commentStart(b []byte) int {
	line, block := bytes.Index(b, []byte("//")), bytes.Index(b, []byte("/*"))
	switch {
	case line < 0:
		return block
	case block < 0:
		return line
	}
	return min(line, block)
}

// firstToken returns the first byte of text that is neither space nor comment, or 0.
func firstToken(text []byte) byte {
	for {
		text = bytes.TrimLeft(text, " \t\r\n")
		switch {
		case bytes.HasPrefix(text, []byte("//")):
			j := bytes.IndexByte(text, '\n')
			if j < 0 {
				return 0
			}
			text = text[j:]
		case bytes.HasPrefix(text, []byte("/*")):
			j := bytes.Index(text, []byte("*/"))
			if j < 0 {
				return 0
			}
			text = text[j+2:]
		case len(text) == 0:
			return 0
		default:
			return text[0]
		}
	}
}

func splice(text []byte, at int, c byte) []byte {
	out := make([]byte, 0, len(text)+1)
	out = append(out, text[:at]...)
	out = append(out, c)
	return append(out, text[at:]...)
}

func endsInLineComment(text []byte) bool {
	last := text[bytes.LastIndexByte(text, '\n')+1:]
	return bytes.Contains(last, []byte("//"))
}

// newlineFollows reports whether only blanks, and separators when skipSep is set, stand
// between pos and the next line break.
func newlineFollows(src []byte, pos int, skipSep bool) bool {
	for ; pos < len(src); pos++ {
		switch src[pos] {
		case ' ', '\t':
			continue
		case ',', ';':
			if skipSep {
				continue
			}
		case '\n', '\r':
			return true
		}
		return false
	}
	return true
}
