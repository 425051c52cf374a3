package domain

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Permissions []PermissionMetadata `yaml:"permissions"`
	Roles       []struct {
		Name           string       `yaml:"name"`
		DisplayName    string       `yaml:"display_name"`
		Description    string       `yaml:"description"`
		AllPermissions bool         `yaml:"all_permissions"`
		Permissions    []Permission `yaml:"permissions"`
	} `yaml:"roles"`
}

// Catalog is the static permission metadata and system role table shipped
// with the binary.
type Catalog struct {
	metadata    []PermissionMetadata
	byPerm      map[Permission]PermissionMetadata
	systemRoles []Role
	rolePerms   map[string][]Permission
}

var defaultCatalog = mustParseCatalog(catalogYAML)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog { return defaultCatalog }

func mustParseCatalog(raw []byte) *Catalog {
	c, err := ParseCatalog(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes a catalog document and checks that it covers every
// permission constant exactly once.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	c := &Catalog{
		byPerm:    make(map[Permission]PermissionMetadata, len(file.Permissions)),
		rolePerms: make(map[string][]Permission, len(file.Roles)),
	}
	for _, meta := range file.Permissions {
		if !meta.Permission.Valid() {
			return nil, fmt.Errorf("catalog: unknown permission %q", meta.Permission)
		}
		if _, dup := c.byPerm[meta.Permission]; dup {
			return nil, fmt.Errorf("catalog: duplicate permission %q", meta.Permission)
		}
		c.byPerm[meta.Permission] = meta
		c.metadata = append(c.metadata, meta)
	}
	for _, p := range AllPermissions {
		if _, ok := c.byPerm[p]; !ok {
			return nil, fmt.Errorf("catalog: missing metadata for %q", p)
		}
	}
	for _, r := range file.Roles {
		perms := r.Permissions
		if r.AllPermissions {
			perms = slices.Clone(AllPermissions)
		}
		for _, p := range perms {
			if !p.Valid() {
				return nil, fmt.Errorf("catalog: role %q references unknown permission %q", r.Name, p)
			}
		}
		c.rolePerms[r.Name] = perms
		c.systemRoles = append(c.systemRoles, Role{
			ID:           r.Name,
			Name:         r.Name,
			DisplayName:  r.DisplayName,
			Description:  r.Description,
			Permissions:  perms,
			IsSystemRole: true,
			IsActive:     true,
		})
	}
	return c, nil
}

// Metadata returns every permission's metadata in catalog order.
func (c *Catalog) Metadata() []PermissionMetadata {
	return slices.Clone(c.metadata)
}

func (c *Catalog) Lookup(p Permission) (PermissionMetadata, bool) {
	meta, ok := c.byPerm[p]
	return meta, ok
}

// SystemRoles returns copies of the fixed roles.
func (c *Catalog) SystemRoles() []Role {
	out := make([]Role, 0, len(c.systemRoles))
	for _, r := range c.systemRoles {
		r.Permissions = slices.Clone(r.Permissions)
		out = append(out, r)
	}
	return out
}

// SystemRole looks up a fixed role by name.
func (c *Catalog) SystemRole(name string) (Role, bool) {
	for _, r := range c.systemRoles {
		if r.Name == name {
			r.Permissions = slices.Clone(r.Permissions)
			return r, true
		}
	}
	return Role{}, false
}

// RolePermissions is the static role name to permission table used for
// users that carry role names without resolved permissions.
func (c *Catalog) RolePermissions(roleName string) []Permission {
	return c.rolePerms[roleName]
}

func (c *Catalog) IsSystemRole(name string) bool {
	_, ok := c.rolePerms[name]
	return ok
}
