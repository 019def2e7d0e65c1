package scene

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"depthmap-renderer/internal/mathutil"
)

// LoadOBJ reads a Wavefront OBJ file into a scene. Each "o"/"g" group
// becomes its own mesh object so multi-object files exercise the merge
// step. Polygons with more than three vertices are fan-triangulated.
// Texture coordinates, normals and materials are ignored; only geometry
// matters for depth.
func LoadOBJ(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: open %s: %w", path, err)
	}
	defer f.Close()

	sc := New()
	var cur *Mesh
	// OBJ vertex indices are global across groups.
	var verts []mathutil.Vec3
	// Maps a global vertex index to its slot in cur.Verts.
	var remap map[int]int

	ensureMesh := func(name string) {
		if cur == nil || name != "" {
			cur = NewMesh(name)
			if cur.Name == "" {
				cur.Name = fmt.Sprintf("object%d", len(sc.Meshes()))
			}
			sc.AddMesh(cur)
			remap = make(map[int]int)
		}
	}

	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		ident, val := fields[0], fields[1:]

		switch ident {
		case "v":
			if len(val) < 3 {
				return nil, fmt.Errorf("obj: %s:%d: vertex needs 3 coordinates", path, lineNo)
			}
			var co mathutil.Vec3
			for k := 0; k < 3; k++ {
				co[k], err = strconv.ParseFloat(val[k], 64)
				if err != nil {
					return nil, fmt.Errorf("obj: %s:%d: bad coordinate %q: %w", path, lineNo, val[k], err)
				}
			}
			verts = append(verts, co)

		case "o", "g":
			name := ""
			if len(val) > 0 {
				name = val[0]
			}
			ensureMesh(name)

		case "f":
			if len(val) < 3 {
				return nil, fmt.Errorf("obj: %s:%d: face needs at least 3 vertices", path, lineNo)
			}
			ensureMesh("")
			idx := make([]int, len(val))
			for k, s := range val {
				// "v", "v/vt", "v//vn", "v/vt/vn" — only the position index matters
				head, _, _ := strings.Cut(s, "/")
				gi, err := strconv.Atoi(head)
				if err != nil {
					return nil, fmt.Errorf("obj: %s:%d: bad face index %q: %w", path, lineNo, s, err)
				}
				if gi < 0 {
					gi = len(verts) + gi + 1 // negative indices count from the end
				}
				gi-- // OBJ indices start at 1
				if gi < 0 || gi >= len(verts) {
					return nil, fmt.Errorf("obj: %s:%d: face index %d out of range", path, lineNo, gi+1)
				}
				li, ok := remap[gi]
				if !ok {
					li = len(cur.Verts)
					cur.Verts = append(cur.Verts, verts[gi])
					remap[gi] = li
				}
				idx[k] = li
			}
			for k := 2; k < len(idx); k++ {
				cur.Tris = append(cur.Tris, [3]int{idx[0], idx[k-1], idx[k]})
			}

		default:
			// vt, vn, s, usemtl, mtllib — not needed for depth
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: read %s: %w", path, err)
	}

	if len(sc.Meshes()) == 0 {
		return nil, fmt.Errorf("obj: %s: %w", path, ErrSceneEmpty)
	}
	return sc, nil
}
