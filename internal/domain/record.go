package domain

// Record is one inventory item as decoded from the corpus.
type Record = map[string]any

// Result is the output of a search: the full matching set and its length.
type Result struct {
	Count int      `json:"count"`
	Items []Record `json:"items"`
}

// ShapeKind tells how records are wrapped inside a corpus file.
type ShapeKind int

const (
	ShapeArray  ShapeKind = iota // [ {...}, {...} ]
	ShapeKeyed                   // { "<key>": [ {...} ] }
	ShapeSingle                  // { "<key>": {...} }
)

type Shape struct {
	Kind ShapeKind
	Key  string
}

var Flat = Shape{Kind: ShapeArray}

func Keyed(key string) Shape  { return Shape{Kind: ShapeKeyed, Key: key} }
func Single(key string) Shape { return Shape{Kind: ShapeSingle, Key: key} }

// FileRef locates one corpus file below the data directory.
type FileRef struct {
	Dir   string
	Name  string
	Shape Shape
}

func (f FileRef) Path() string { return f.Dir + "/" + f.Name }

// Blob is an encoded corpus file ready to be written.
type Blob struct {
	Ref  FileRef
	Body []byte
}
