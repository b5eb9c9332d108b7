package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
	"github.com/df07/go-progressive-pathtracer/pkg/geometry"
)

// Mesh is the triangle list produced from a Wavefront OBJ stream
type Mesh struct {
	Triangles [][3]geometry.Vertex
	Positions int  // Number of v statements
	UVs       int  // Number of vt statements
	Normals   int  // Number of vn statements
	Generated bool // At least one face had no vn indices and got its flat normal
}

// objReader accumulates the coordinate lists while a stream is parsed
type objReader struct {
	positions []core.Vec3
	uvs       []core.Vec2
	normals   []core.Vec3
	mesh      *Mesh
}

// LoadOBJ reads a Wavefront OBJ file into a triangle list
func LoadOBJ(filename string) (*Mesh, error) {
	start := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open OBJ file: %w", err)
	}
	defer file.Close()

	mesh, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d triangles from %d vertices in %v",
		filename, len(mesh.Triangles), mesh.Positions, time.Since(start))
	return mesh, nil
}

// ParseOBJ reads v, vt, vn and f statements. Faces with more than three
// corners are fan-triangulated. Other statements are ignored.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	reader := &objReader{mesh: &Mesh{}}

	lineNum := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			var v core.Vec3
			if v, err = parseVec3(lineTokens); err == nil {
				reader.positions = append(reader.positions, v)
			}
		case "vt":
			var uv core.Vec2
			if uv, err = parseVec2(lineTokens); err == nil {
				reader.uvs = append(reader.uvs, uv)
			}
		case "vn":
			var n core.Vec3
			if n, err = parseVec3(lineTokens); err == nil {
				reader.normals = append(reader.normals, n.Normalize())
			}
		case "f":
			err = reader.parseFace(lineTokens)
		default:
			logger.Debugf("line %d: skipping unsupported statement %q", lineNum, lineTokens[0])
		}

		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ stream: %w", err)
	}

	if len(reader.positions) == 0 {
		return nil, ErrNoVertices
	}
	if len(reader.mesh.Triangles) == 0 {
		return nil, ErrNoTriangles
	}

	reader.mesh.Positions = len(reader.positions)
	reader.mesh.UVs = len(reader.uvs)
	reader.mesh.Normals = len(reader.normals)
	return reader.mesh, nil
}

// parseFace resolves every corner of an f statement and appends its triangles
func (r *objReader) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf("face needs at least 3 corners, got %d: %w", len(lineTokens)-1, ErrMalformed)
	}

	corners := make([]geometry.Vertex, len(lineTokens)-1)
	withNormals := 0
	for arg := range corners {
		vTokens := strings.Split(lineTokens[arg+1], "/")
		if len(vTokens) > 3 || vTokens[0] == "" {
			return fmt.Errorf("face corner %d %q: %w", arg, lineTokens[arg+1], ErrMalformed)
		}

		offset, err := selectFaceCoordIndex(vTokens[0], len(r.positions))
		if err != nil {
			return fmt.Errorf("vertex index for face corner %d: %w", arg, err)
		}
		corners[arg].Position = r.positions[offset]

		if len(vTokens) > 1 && vTokens[1] != "" {
			offset, err = selectFaceCoordIndex(vTokens[1], len(r.uvs))
			if err != nil {
				return fmt.Errorf("tex coord for face corner %d: %w", arg, err)
			}
			corners[arg].UV = r.uvs[offset]
		}

		if len(vTokens) > 2 && vTokens[2] != "" {
			offset, err = selectFaceCoordIndex(vTokens[2], len(r.normals))
			if err != nil {
				return fmt.Errorf("normal for face corner %d: %w", arg, err)
			}
			corners[arg].Normal = r.normals[offset]
			withNormals++
		}
	}

	// Faces without a full set of normals are shaded flat
	if withNormals < len(corners) {
		flat := corners[1].Position.Subtract(corners[0].Position).
			Cross(corners[2].Position.Subtract(corners[0].Position)).Normalize()
		for i := range corners {
			corners[i].Normal = flat
		}
		r.mesh.Generated = true
	}

	for i := 1; i+1 < len(corners); i++ {
		r.mesh.Triangles = append(r.mesh.Triangles, [3]geometry.Vertex{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

// selectFaceCoordIndex turns a 1-based or negative (relative) OBJ index
// into a slice offset
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, fmt.Errorf("index %q: %w", indexToken, ErrMalformed)
	}

	var offset int
	if index < 0 {
		offset = coordListLen + int(index)
	} else {
		offset = int(index - 1)
	}
	if offset < 0 || offset >= coordListLen {
		return -1, fmt.Errorf("index %d out of bounds (%d entries): %w", index, coordListLen, ErrMalformed)
	}
	return offset, nil
}

func parseFloats(lineTokens []string, count int) ([]float64, error) {
	if len(lineTokens) < count+1 {
		return nil, fmt.Errorf("%s expects %d values, got %d: %w", lineTokens[0], count, len(lineTokens)-1, ErrMalformed)
	}

	values := make([]float64, count)
	for i := range values {
		v, err := strconv.ParseFloat(lineTokens[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s value %q: %w", lineTokens[0], lineTokens[i+1], ErrMalformed)
		}
		values[i] = v
	}
	return values, nil
}

func parseVec3(lineTokens []string) (core.Vec3, error) {
	v, err := parseFloats(lineTokens, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(v[0], v[1], v[2]), nil
}

func parseVec2(lineTokens []string) (core.Vec2, error) {
	v, err := parseFloats(lineTokens, 2)
	if err != nil {
		return core.Vec2{}, err
	}
	return core.NewVec2(v[0], v[1]), nil
}
