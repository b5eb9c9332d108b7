package material

import (
	"fmt"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// Kind selects the scattering model of a Material
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
	KindDiffuseLight
)

func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	case KindDiffuseLight:
		return "diffuse_light"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Material is a tagged union over the supported surface models.
// Only the fields relevant to Kind are read.
type Material struct {
	Kind            Kind
	Texture         TextureID // Lambertian albedo or emitted radiance
	Albedo          core.Vec3 // Metal reflectance
	Fuzz            float64   // Metal roughness in [0, 1]
	RefractionIndex float64   // Dielectric index of refraction
}

// Library owns every texture and material of a scene. Handles stay valid
// for the lifetime of the library. Adding is not safe for concurrent use;
// lookups are, once the scene is built.
type Library struct {
	textures  []Texture
	materials []Material
}

// NewLibrary creates an empty library
func NewLibrary() *Library {
	return &Library{}
}

// AddTexture stores a texture and returns its handle
func (l *Library) AddTexture(t Texture) TextureID {
	l.textures = append(l.textures, t)
	return TextureID(len(l.textures) - 1)
}

// AddMaterial stores a material and returns its handle
func (l *Library) AddMaterial(m Material) ID {
	l.materials = append(l.materials, m)
	return ID(len(l.materials) - 1)
}

// Texture returns the texture behind a handle
func (l *Library) Texture(id TextureID) (Texture, bool) {
	if id < 0 || int(id) >= len(l.textures) {
		return Texture{}, false
	}
	return l.textures[id], true
}

// Material returns the material behind a handle
func (l *Library) Material(id ID) (Material, bool) {
	if id < 0 || int(id) >= len(l.materials) {
		return Material{}, false
	}
	return l.materials[id], true
}

// NumTextures returns the number of stored textures
func (l *Library) NumTextures() int { return len(l.textures) }

// NumMaterials returns the number of stored materials
func (l *Library) NumMaterials() int { return len(l.materials) }

// NewSolidColor adds a constant color texture
func (l *Library) NewSolidColor(color core.Vec3) TextureID {
	return l.AddTexture(SolidColor(color))
}

// NewLambertian adds a diffuse material with a solid albedo
func (l *Library) NewLambertian(albedo core.Vec3) ID {
	return l.NewTexturedLambertian(l.NewSolidColor(albedo))
}

// NewTexturedLambertian adds a diffuse material whose albedo is a texture
func (l *Library) NewTexturedLambertian(albedo TextureID) ID {
	return l.AddMaterial(Material{Kind: KindLambertian, Texture: albedo})
}

// NewMetal adds a reflective material, clamping fuzz to [0, 1]
func (l *Library) NewMetal(albedo core.Vec3, fuzz float64) ID {
	return l.AddMaterial(Material{Kind: KindMetal, Albedo: albedo, Fuzz: max(0, min(fuzz, 1)), Texture: NoTexture})
}

// NewDielectric adds a refractive material
func (l *Library) NewDielectric(refractionIndex float64) ID {
	return l.AddMaterial(Material{Kind: KindDielectric, RefractionIndex: refractionIndex, Texture: NoTexture})
}

// NewDiffuseLight adds an emissive material with constant radiance
func (l *Library) NewDiffuseLight(emit core.Vec3) ID {
	return l.NewTexturedDiffuseLight(l.NewSolidColor(emit))
}

// NewTexturedDiffuseLight adds an emissive material sampling a texture
func (l *Library) NewTexturedDiffuseLight(emit TextureID) ID {
	return l.AddMaterial(Material{Kind: KindDiffuseLight, Texture: emit})
}

// Validate checks that every handle stored in the library resolves and
// that checker textures do not reference themselves.
func (l *Library) Validate() error {
	for i, t := range l.textures {
		if t.Kind != TextureChecker {
			continue
		}
		for _, ref := range []TextureID{t.Even, t.Odd} {
			if _, ok := l.Texture(ref); !ok {
				return fmt.Errorf("texture %d: %w", i, ErrInvalidTexture)
			}
		}
		if l.reaches(t.Even, TextureID(i), len(l.textures)) || l.reaches(t.Odd, TextureID(i), len(l.textures)) {
			return fmt.Errorf("texture %d: %w", i, ErrTextureCycle)
		}
	}

	for i, m := range l.materials {
		if m.Kind != KindLambertian && m.Kind != KindDiffuseLight {
			continue
		}
		if _, ok := l.Texture(m.Texture); !ok {
			return fmt.Errorf("material %d (%s): %w", i, m.Kind, ErrInvalidTexture)
		}
	}
	return nil
}

func (l *Library) reaches(from, target TextureID, budget int) bool {
	if from == target {
		return true
	}
	t, ok := l.Texture(from)
	if !ok || t.Kind != TextureChecker || budget == 0 {
		return false
	}
	return l.reaches(t.Even, target, budget-1) || l.reaches(t.Odd, target, budget-1)
}

// Scatter dispatches to the scattering model of the hit material.
// It returns false when the path ends at this surface.
func (l *Library) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	m, ok := l.Material(hit.Material)
	if !ok {
		return ScatterResult{}, false
	}

	switch m.Kind {
	case KindLambertian:
		albedo := l.Value(m.Texture, hit.UV, hit.Point)
		return scatterLambertian(albedo, hit, sampler), true
	case KindMetal:
		return scatterMetal(m.Albedo, m.Fuzz, rayIn, hit, sampler)
	case KindDielectric:
		return scatterDielectric(m.RefractionIndex, rayIn, hit, sampler), true
	default:
		return ScatterResult{}, false
	}
}

// Emitted returns the radiance leaving the surface. Only diffuse lights emit.
func (l *Library) Emitted(id ID, uv core.Vec2, point core.Vec3) core.Vec3 {
	m, ok := l.Material(id)
	if !ok || m.Kind != KindDiffuseLight {
		return core.Vec3{}
	}
	return l.Value(m.Texture, uv, point)
}
