// Package codec implements the wire format of the nodes configuration record.
//
// A serialized record consists of a fixed-size header followed by a CBOR body:
//
//	offset 0..1  magic bytes "NC"
//	offset 2     format version (currently 0x01)
//	offset 3..10 configuration version, big-endian uint64
//	offset 11..  CBOR-encoded topology
//
// The configuration version lives in the header so that it can be extracted
// without decoding the body. The watch loop relies on this to decide cheaply
// whether a full fetch and deserialization is warranted.
package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/fxamacker/cbor/v2"

	"github.com/flowmesh/nodeconf/model/cluster"
)

const (
	formatVersion = 0x01
	headerLength  = 11
)

var magic = []byte{'N', 'C'}

// wireNode is the CBOR shape of a single topology entry.
type wireNode struct {
	Address string `cbor:"1,keyasint"`
	Roles   uint8  `cbor:"2,keyasint"`
}

// wireBody is the CBOR shape of the topology. The configuration version is
// deliberately absent: the header is its single authoritative location.
type wireBody struct {
	Nodes map[uint64]wireNode `cbor:"1,keyasint"`
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Serialize encodes the configuration into its wire representation.
func Serialize(nc *cluster.NodesConfiguration) ([]byte, error) {
	body := wireBody{Nodes: make(map[uint64]wireNode, len(nc.Nodes))}
	for id, node := range nc.Nodes {
		body.Nodes[uint64(id)] = wireNode{
			Address: node.Address,
			Roles:   uint8(node.Roles),
		}
	}

	payload, err := encMode.Marshal(body)
	if err != nil {
		return nil, NewDecodeErrorf("could not encode topology: %w", err)
	}

	data := make([]byte, headerLength, headerLength+len(payload))
	copy(data, magic)
	data[2] = formatVersion
	binary.BigEndian.PutUint64(data[3:headerLength], uint64(nc.Version))
	return append(data, payload...), nil
}

// Deserialize decodes a wire representation into a configuration.
// Returns a DecodeError if the data is malformed; this is treated as a
// store-integrity failure by callers, never silently skipped.
func Deserialize(data []byte) (*cluster.NodesConfiguration, error) {
	version, err := ExtractVersion(data)
	if err != nil {
		return nil, err
	}

	var body wireBody
	err = cbor.Unmarshal(data[headerLength:], &body)
	if err != nil {
		return nil, NewDecodeErrorf("could not decode topology: %w", err)
	}

	nc := &cluster.NodesConfiguration{
		Version: version,
		Nodes:   make(map[cluster.NodeID]cluster.Node, len(body.Nodes)),
	}
	for id, node := range body.Nodes {
		nc.Nodes[cluster.NodeID(id)] = cluster.Node{
			Address: node.Address,
			Roles:   cluster.RoleSet(node.Roles),
		}
	}
	return nc, nil
}

// ExtractVersion reads the configuration version from the header without
// decoding the body.
func ExtractVersion(data []byte) (cluster.Version, error) {
	if len(data) < headerLength {
		return cluster.EmptyVersion, NewDecodeErrorf("value too short for header (%d < %d)", len(data), headerLength)
	}
	if !bytes.Equal(data[:2], magic) {
		return cluster.EmptyVersion, NewDecodeErrorf("invalid magic bytes (%x)", data[:2])
	}
	if data[2] != formatVersion {
		return cluster.EmptyVersion, NewDecodeErrorf("unsupported format version (%d)", data[2])
	}
	return cluster.Version(binary.BigEndian.Uint64(data[3:headerLength])), nil
}
