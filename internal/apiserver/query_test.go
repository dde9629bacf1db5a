// IUDX Resource Server - Catalogued Geospatial Data Exchange
// Copyright 2026 SRINI2410
// SPDX-License-Identifier: Apache-2.0
// https://github.com/SRINI2410/iudx-resource-server

package apiserver

import (
	"testing"

	"github.com/SRINI2410/iudx-resource-server/internal/common"
)

func TestDecodeQueryPreservesPlus(t *testing.T) {
	params, err := decodeQuery("time=2020-10-18T14:20:00+05:30&id=a/b/c/d")
	if err != nil {
		t.Fatal(err)
	}
	if got := params.Get("time"); got != "2020-10-18T14:20:00+05:30" {
		t.Fatalf("time = %q; want the timezone offset preserved", got)
	}
}

func TestDecodeQueryCaseInsensitiveKeys(t *testing.T) {
	params, err := decodeQuery("ID=a/b/c/d&TimeRel=during&searchid=abc")
	if err != nil {
		t.Fatal(err)
	}
	if params.Get("id") != "a/b/c/d" {
		t.Fatal("ID should normalize to id")
	}
	if params.Get("timerel") != "during" {
		t.Fatal("TimeRel should normalize to timerel")
	}
	if params.Get("searchID") != "abc" {
		t.Fatal("searchid should normalize to searchID")
	}
}

func TestDecodeQueryRejectsUnknownParameter(t *testing.T) {
	_, err := decodeQuery("id=a/b/c/d&bogus=1")
	if common.KindOf(err) != common.KindInvalidParameter {
		t.Fatalf("kind = %v; want KindInvalidParameter", common.KindOf(err))
	}
}

func TestDecodeQueryMalformed(t *testing.T) {
	_, err := decodeQuery("id=%zz")
	if common.KindOf(err) != common.KindInvalidParameter {
		t.Fatalf("kind = %v; want KindInvalidParameter", common.KindOf(err))
	}
}

func TestQueryDocumentOmitsAbsent(t *testing.T) {
	params, err := decodeQuery("id=a/b/c/d&timerel=during")
	if err != nil {
		t.Fatal(err)
	}
	doc := queryDocument(params)
	if len(doc) != 2 {
		t.Fatalf("doc = %v; want exactly the present params", doc)
	}
	if doc["id"] != "a/b/c/d" || doc["timerel"] != "during" {
		t.Fatalf("doc = %v", doc)
	}
}
