// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
)

// Geometry types inferred from the leading bracket depth of a serialized
// coordinate structure.
const (
	geomPoint   = "point"
	geomLine    = "line"
	geomPolygon = "polygon"
)

// CoordinateValidator checks a serialized GeoJSON-like coordinate list
// such as [77.5,12.9] or [[[77.5,12.9],[77.6,13.0],...]]].
//
// Numeric tokens alternate longitude, latitude starting with longitude:
// index 0 is a longitude, index 1 a latitude, and so on. Earlier revisions
// used the opposite parity; lon-first matches GeoJSON position order.
type CoordinateValidator struct {
	value    string
	required bool

	// maxCoordinates caps coordinate pairs for lines and polygons.
	maxCoordinates int

	// precision is the maximum fractional digits per value.
	precision int
}

// NewCoordinateValidator creates a validator for the given raw value.
func NewCoordinateValidator(value string, required bool, maxCoordinates, precision int) *CoordinateValidator {
	if maxCoordinates <= 0 {
		maxCoordinates = 10
	}
	if precision <= 0 {
		precision = 6
	}
	return &CoordinateValidator{
		value:          value,
		required:       required,
		maxCoordinates: maxCoordinates,
		precision:      precision,
	}
}

// IsValid implements Validator.
func (v *CoordinateValidator) IsValid() error {
	value := strings.TrimSpace(v.value)
	if value == "" {
		if v.required {
			return common.NewError(common.KindInvalidParameter,
				"Empty value not allowed for parameter coordinates")
		}
		return nil
	}

	geom := probableGeomType(value)
	if geom == "" {
		return common.NewError(common.KindInvalidParameter,
			"invalid coordinate format")
	}

	tokens := coordinateTokens(value)
	if err := v.checkCount(geom, tokens); err != nil {
		return err
	}
	return v.checkValues(tokens)
}

// probableGeomType infers the geometry from the leading bracket depth.
func probableGeomType(coords string) string {
	switch {
	case strings.HasPrefix(coords, "[[["):
		return geomPolygon
	case strings.HasPrefix(coords, "[["):
		return geomLine
	case strings.HasPrefix(coords, "["):
		return geomPoint
	default:
		return ""
	}
}

// coordinateTokens strips the bracket structure and splits the numeric
// tokens on commas.
func coordinateTokens(coords string) []string {
	stripped := strings.NewReplacer("[", "", "]", "").Replace(coords)
	parts := strings.Split(stripped, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func (v *CoordinateValidator) checkCount(geom string, tokens []string) error {
	switch geom {
	case geomPoint:
		if len(tokens) != 2 {
			return common.NewError(common.KindInvalidParameter,
				"Invalid number of coordinates given for point")
		}
	default:
		// line and bbox share the [[..],[..]] structure, so both pass
		// through the line branch with the same cap as polygon.
		if len(tokens) > v.maxCoordinates*2 {
			return common.NewError(common.KindInvalidParameter, fmt.Sprintf(
				"Invalid numbers of coordinates supplied (only %d coordinates allowed for polygon and line, 1 coordinate for point)",
				v.maxCoordinates))
		}
	}
	return nil
}

// checkValues validates range and precision for every token. Even indexes
// hold longitudes, odd indexes latitudes.
func (v *CoordinateValidator) checkValues(tokens []string) error {
	for i, token := range tokens {
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return common.NewError(common.KindInvalidParameter,
				"invalid coordinate value "+token)
		}

		if i%2 == 0 {
			if f < -180 || f > 180 {
				return common.NewError(common.KindInvalidParameter,
					"invalid longitude value "+token)
			}
		} else {
			if f < -90 || f > 90 {
				return common.NewError(common.KindInvalidParameter,
					"invalid latitude value "+token)
			}
		}

		if scaleOf(token) > v.precision {
			return common.NewError(common.KindInvalidParameter, fmt.Sprintf(
				"invalid coordinate %s (only %d digits to precision allowed)",
				token, v.precision))
		}
	}
	return nil
}

// scaleOf counts fractional digits of a plain decimal literal. Exponent
// forms are out of the accepted grammar and count as over scale.
func scaleOf(token string) int {
	if strings.ContainsAny(token, "eE") {
		return int(^uint(0) >> 1)
	}
	dot := strings.IndexByte(token, '.')
	if dot < 0 {
		return 0
	}
	return len(token) - dot - 1
}
