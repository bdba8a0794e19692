package types

import "strings"

// Tag identifies the kind of a runtime value.
// Tags are bit flags so operator handlers can match sets of tags;
// every concrete value carries exactly one bit.
type Tag uint32

const (
	TagNone Tag = 1 << iota
	TagError
	TagReject
	TagBool
	TagInt
	TagReal
	TagStr
	TagVar
	TagOp
	TagFunc
	TagMap
	TagList
	TagTuple
	TagSTuple
	TagRef
	TagIterable
)

// Tag groups
const (
	Numeric   = TagBool | TagInt | TagReal
	Sentinels = TagNone | TagError | TagReject
	Iterables = TagList | TagTuple | TagSTuple | TagIterable
	Tuples    = TagTuple | TagSTuple

	AnyTag = TagNone | TagError | TagReject | TagBool | TagInt | TagReal |
		TagStr | TagVar | TagOp | TagFunc | TagMap | TagList | TagTuple |
		TagSTuple | TagRef | TagIterable
)

// AllTags lists every concrete tag in declaration order
var AllTags = []Tag{
	TagNone, TagError, TagReject, TagBool, TagInt, TagReal, TagStr, TagVar,
	TagOp, TagFunc, TagMap, TagList, TagTuple, TagSTuple, TagRef, TagIterable,
}

// In reports whether t belongs to the tag set mask
func (t Tag) In(mask Tag) bool {
	return t&mask != 0
}

// String returns the tag name (or a "|"-joined list for tag sets)
func (t Tag) String() string {
	switch t {
	case TagNone:
		return "NONE"
	case TagError:
		return "ERROR"
	case TagReject:
		return "REJECT"
	case TagBool:
		return "BOOL"
	case TagInt:
		return "INT"
	case TagReal:
		return "REAL"
	case TagStr:
		return "STR"
	case TagVar:
		return "VAR"
	case TagOp:
		return "OP"
	case TagFunc:
		return "FUNC"
	case TagMap:
		return "MAP"
	case TagList:
		return "LIST"
	case TagTuple:
		return "TUPLE"
	case TagSTuple:
		return "STUPLE"
	case TagRef:
		return "REF"
	case TagIterable:
		return "ITERABLE"
	}

	var parts []string
	for _, tag := range AllTags {
		if t&tag != 0 {
			parts = append(parts, tag.String())
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// Name returns the canonical lowercase type name used by introspection
// and error messages
func (t Tag) Name() string {
	switch t {
	case TagNone:
		return "none"
	case TagError:
		return "error"
	case TagReject:
		return "reject"
	case TagBool:
		return "boolean"
	case TagInt:
		return "integer"
	case TagReal:
		return "real"
	case TagStr:
		return "string"
	case TagVar:
		return "variable"
	case TagOp:
		return "operator"
	case TagFunc:
		return "function"
	case TagMap:
		return "map"
	case TagList:
		return "list"
	case TagTuple:
		return "tuple"
	case TagSTuple:
		return "argument tuple"
	case TagRef:
		return "reference"
	case TagIterable:
		return "iterable"
	default:
		return "unknown_type"
	}
}

// ParseTag converts a tag name like "INT" back to a Tag
func ParseTag(s string) (Tag, bool) {
	for _, tag := range AllTags {
		if tag.String() == strings.ToUpper(s) {
			return tag, true
		}
	}
	return 0, false
}
