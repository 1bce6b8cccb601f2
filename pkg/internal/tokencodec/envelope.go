package tokencodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/joeydtaylor/condenser/pkg/internal/types"
	"github.com/joeydtaylor/condenser/pkg/internal/utils"
)

// NewPayload assembles a versioned payload. The dictionary slice is copied.
func NewPayload(dict types.Dictionary, compressed string, meta types.PayloadMetadata) types.Payload {
	entries := make(types.Dictionary, len(dict))
	copy(entries, dict)
	return types.Payload{
		Version:    types.PayloadVersion,
		Dictionary: entries,
		Compressed: compressed,
		Metadata:   meta,
	}
}

// MarshalPayload serializes p without HTML escaping so the measured size matches what
// clients receive.
func MarshalPayload(p types.Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// strictPayload mirrors types.Payload with pointer fields so missing keys are detectable.
type strictPayload struct {
	Version    *string                `json:"version"`
	Dictionary *types.Dictionary      `json:"dictionary"`
	Compressed *string                `json:"compressed"`
	Metadata   *types.PayloadMetadata `json:"metadata"`
}

// compactPayload is the short-key envelope: {"v":"1.0","d":{"[0]":"word"},"c":"..."}.
type compactPayload struct {
	Version    *string            `json:"v"`
	Dictionary *map[string]string `json:"d"`
	Compressed *string            `json:"c"`
}

// ParsePayload strictly decodes a payload. Missing required fields, unknown fields, an
// unsupported version or a malformed dictionary yield a *FormatError.
func ParsePayload(data []byte) (types.Payload, error) {
	var sp strictPayload
	if err := utils.DecodeJSONStrict(bytes.NewReader(data), &sp); err != nil {
		return types.Payload{}, formatErr("malformed payload", err)
	}
	if sp.Version == nil || sp.Dictionary == nil || sp.Compressed == nil {
		return types.Payload{}, formatErr("missing version, dictionary or compressed", nil)
	}
	if *sp.Version != types.PayloadVersion {
		return types.Payload{}, formatErr(fmt.Sprintf("unsupported version %q", *sp.Version), nil)
	}
	if err := validateDictionary(*sp.Dictionary); err != nil {
		return types.Payload{}, err
	}

	p := types.Payload{
		Version:    *sp.Version,
		Dictionary: *sp.Dictionary,
		Compressed: *sp.Compressed,
	}
	if sp.Metadata != nil {
		p.Metadata = *sp.Metadata
	}
	return p, nil
}

// Unpack restores the text carried by data. It accepts the versioned payload and the
// compact short-key envelope; legacy reports which one was found.
func Unpack(data []byte) (text string, payload types.Payload, legacy bool, err error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", types.Payload{}, false, formatErr("payload is not a JSON object", err)
	}

	if _, ok := keys["v"]; ok {
		payload, err = parseCompact(data)
		if err != nil {
			return "", types.Payload{}, false, err
		}
		return decodeSubstrings(payload.Compressed, payload.Dictionary), payload, true, nil
	}

	payload, err = ParsePayload(data)
	if err != nil {
		return "", types.Payload{}, false, err
	}
	return Decode(payload.Compressed, payload.Dictionary), payload, false, nil
}

func parseCompact(data []byte) (types.Payload, error) {
	var cp compactPayload
	if err := utils.DecodeJSONStrict(bytes.NewReader(data), &cp); err != nil {
		return types.Payload{}, formatErr("malformed compact payload", err)
	}
	if cp.Version == nil || cp.Dictionary == nil || cp.Compressed == nil {
		return types.Payload{}, formatErr("missing v, d or c", nil)
	}
	if *cp.Version != types.PayloadVersion {
		return types.Payload{}, formatErr(fmt.Sprintf("unsupported version %q", *cp.Version), nil)
	}

	dict := make(types.Dictionary, 0, len(*cp.Dictionary))
	for code, word := range *cp.Dictionary {
		dict = append(dict, types.DictionaryEntry{Word: word, Code: code})
	}
	sort.Slice(dict, func(i, j int) bool { return codeRank(dict[i].Code) < codeRank(dict[j].Code) })
	if err := validateDictionary(dict); err != nil {
		return types.Payload{}, err
	}

	return types.Payload{
		Version:    *cp.Version,
		Dictionary: dict,
		Compressed: *cp.Compressed,
	}, nil
}

func validateDictionary(dict types.Dictionary) error {
	seen := make(map[string]struct{}, len(dict))
	for i, e := range dict {
		if e.Code == "" {
			return formatErr(fmt.Sprintf("dictionary entry %d has an empty code", i), nil)
		}
		if _, dup := seen[e.Code]; dup {
			return formatErr(fmt.Sprintf("dictionary code %s is not unique", e.Code), nil)
		}
		seen[e.Code] = struct{}{}
	}
	return nil
}

// codeRank orders "[n]" codes numerically; anything else sorts last.
func codeRank(code string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(code, "["), "]"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
