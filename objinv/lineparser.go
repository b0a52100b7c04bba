package objinv

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// Header line prefixes.
const (
	headerPrefix    = "# "
	versionLinePfx  = "# Sphinx inventory version "
	projectLinePfx  = "# Project: "
	versionLinePfx2 = "# Version: "
)

// supportedVersion is the only inventory format version this codec
// understands.
const supportedVersion = "2"

// recordPattern tokenizes one data line into its six fields. Equivalent to:
//
//	^(?P<name>\S+)\s+(?P<domain>\S+):(?P<role>\S+)\s+(?P<priority>-?\d+)\s+(?P<uri>\S*)\s+(?P<dispname>.+?)\s*$
var recordPattern = regexp.MustCompile(
	`^(\S+)\s+(\S+):(\S+)\s+(-?\d+)\s+(\S*)\s+(.+?)\s*$`,
)

// header is the parsed four-line plaintext header.
type header struct {
	VersionTag string
	Project    string
	Version    string
}

// normalizeNewlines converts CRLF to LF so the parser only has to deal with
// one line ending convention.
func normalizeNewlines(b []byte) []byte {
	if !bytes.Contains(b, []byte("\r\n")) {
		return b
	}
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

// parseHeader reads the four fixed header lines from the front of body and
// returns the parsed header along with the remaining bytes (the record
// lines). It does not require the version line to be exactly "2" — the
// version check is left to the caller so that FormatError and VersionError
// can be distinguished (a malformed header vs. a well-formed header
// announcing an unsupported version).
func parseHeader(body []byte) (*header, []byte, error) {
	body = normalizeNewlines(body)
	lines := make([]string, 0, headerLineCount)
	rest := body
	for i := 0; i < headerLineCount; i++ {
		nl := bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return nil, nil, &FormatError{Reason: "header truncated before four lines"}
		}
		lines = append(lines, string(rest[:nl]))
		rest = rest[nl+1:]
	}

	if !strings.HasPrefix(lines[0], versionLinePfx) {
		return nil, nil, &FormatError{Reason: "missing inventory version line"}
	}
	versionTag := strings.TrimSpace(strings.TrimPrefix(lines[0], versionLinePfx))
	if _, err := strconv.Atoi(versionTag); err != nil {
		return nil, nil, &FormatError{Reason: "inventory version line is not numeric"}
	}

	if !strings.HasPrefix(lines[1], projectLinePfx) {
		return nil, nil, &FormatError{Reason: "missing Project: line"}
	}
	project := strings.TrimPrefix(lines[1], projectLinePfx)

	if !strings.HasPrefix(lines[2], versionLinePfx2) {
		return nil, nil, &FormatError{Reason: "missing Version: line"}
	}
	version := strings.TrimPrefix(lines[2], versionLinePfx2)

	if !strings.HasPrefix(lines[3], headerPrefix) {
		return nil, nil, &FormatError{Reason: "malformed fourth header line"}
	}

	return &header{VersionTag: versionTag, Project: project, Version: version}, rest, nil
}

// rawRecord is a single parsed data line in byte form, before conversion to
// a DataObject.
type rawRecord struct {
	Name, Domain, Role, Priority, URI, Dispname []byte
}

// parseRecords tokenizes each line of body (normally the bytes following
// the header) into rawRecords. Lines that do not match recordPattern are
// silently skipped — comments, blank lines, and malformed entries do not
// abort parsing.
func parseRecords(body []byte) []rawRecord {
	body = normalizeNewlines(body)
	var records []rawRecord
	for _, line := range bytes.Split(body, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		m := recordPattern.FindSubmatch(line)
		if m == nil {
			continue
		}
		records = append(records, rawRecord{
			Name:     m[1],
			Domain:   m[2],
			Role:     m[3],
			Priority: m[4],
			URI:      m[5],
			Dispname: m[6],
		})
	}
	return records
}

// parsePlaintext parses a full plaintext inventory body (header + records)
// and returns the header and the ordered DataObject list.
func parsePlaintext(plaintext []byte) (*header, []*DataObjBytes, error) {
	hdr, body, err := parseHeader(plaintext)
	if err != nil {
		return nil, nil, err
	}
	if hdr.VersionTag != supportedVersion {
		return nil, nil, &VersionError{Got: hdr.VersionTag}
	}

	raws := parseRecords(body)
	objs := make([]*DataObjBytes, len(raws))
	for i, r := range raws {
		objs[i] = newDataObjectFromBytes(r.Name, r.Domain, r.Role, r.Priority, r.URI, r.Dispname)
	}
	return hdr, objs, nil
}
