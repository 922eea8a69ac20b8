package gltf

// glTF 2.0 component types and buffer-view targets, as defined by the
// specification. Only the subset used by the writer is declared.
const (
	componentFloat         = 5126
	componentUnsignedShort = 5123

	targetArrayBuffer        = 34962
	targetElementArrayBuffer = 34963
)

// document is the JSON metadata chunk of a GLB container. Field order
// follows the struct declaration, so serialization is deterministic.
type document struct {
	Asset       asset        `json:"asset"`
	Scene       int          `json:"scene"`
	Scenes      []sceneDef   `json:"scenes"`
	Nodes       []node       `json:"nodes"`
	Meshes      []mesh       `json:"meshes"`
	Accessors   []accessor   `json:"accessors"`
	BufferViews []bufferView `json:"bufferViews"`
	Buffers     []buffer     `json:"buffers"`
}

type asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

type sceneDef struct {
	Nodes []int `json:"nodes"`
}

type node struct {
	Mesh int    `json:"mesh"`
	Name string `json:"name,omitempty"`
}

type mesh struct {
	Primitives []primitive `json:"primitives"`
}

type primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    int            `json:"indices"`
}

type accessor struct {
	BufferView    int       `json:"bufferView"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float64 `json:"min,omitempty"`
	Max           []float64 `json:"max,omitempty"`
}

type bufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	Target     int `json:"target,omitempty"`
}

type buffer struct {
	ByteLength int `json:"byteLength"`
}
