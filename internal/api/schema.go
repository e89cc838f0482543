package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ObjectClass describes one object class of the directory schema.
type ObjectClass struct {
	Name         string   `json:"name"`
	OID          string   `json:"oid"`
	Description  string   `json:"description,omitempty"`
	SuperClasses []string `json:"superClasses,omitempty"`
	Must         []string `json:"must,omitempty"`
	May          []string `json:"may,omitempty"`
	Structural   bool     `json:"structural"`
}

// AttributeType describes one attribute type of the directory schema.
type AttributeType struct {
	Name        string `json:"name"`
	OID         string `json:"oid"`
	Description string `json:"description,omitempty"`
	Syntax      string `json:"syntax,omitempty"`
	SingleValue bool   `json:"singleValue"`
}

func schemaPath(dirID int64) string {
	return fmt.Sprintf("/directories/%d/schema", dirID)
}

// ListObjectClasses returns the object classes of a directory's schema.
func (c *Client) ListObjectClasses(ctx context.Context, dirID int64) ([]ObjectClass, error) {
	var classes []ObjectClass
	if err := c.do(ctx, http.MethodGet, schemaPath(dirID)+"/object-classes", nil, nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// GetObjectClass returns a single object class by name.
func (c *Client) GetObjectClass(ctx context.Context, dirID int64, name string) (*ObjectClass, error) {
	var class ObjectClass
	path := schemaPath(dirID) + "/object-classes/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListAttributeTypes returns the attribute types of a directory's schema.
func (c *Client) ListAttributeTypes(ctx context.Context, dirID int64) ([]AttributeType, error) {
	var attrs []AttributeType
	if err := c.do(ctx, http.MethodGet, schemaPath(dirID)+"/attribute-types", nil, nil, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// GetAttributeType returns a single attribute type by name.
func (c *Client) GetAttributeType(ctx context.Context, dirID int64, name string) (*AttributeType, error) {
	var attr AttributeType
	path := schemaPath(dirID) + "/attribute-types/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &attr); err != nil {
		return nil, err
	}
	return &attr, nil
}
