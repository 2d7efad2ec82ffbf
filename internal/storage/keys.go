package storage

import "encoding/binary"

// Column tags. Pebble exposes a single ordered keyspace, so "column
// families" are emulated by a one-byte tag prefixing every key — this is
// the same namespacing the bit-exact key encoding already uses per-column,
// just made explicit as the leading byte of the physical pebble key.
const (
	colMisc       byte = 0x00
	colBlobStatus byte = 0x01
	colQuorumNum  byte = 0x02
	colQuorum     byte = 0x03
	colSlice      byte = 0x04
)

// Sub-prefixes within the SLICE column.
const (
	sliceKindIndex byte = 0x00 // blob -> vec<u16> of stored indices
	sliceKindLight byte = 0x01 // (epoch,quorum,root,index) -> LightSlice bytes
	sliceKindData  byte = 0x02 // (epoch,quorum,root,index) -> raw row bytes
)

const (
	miscSyncProgress  byte = 0x00
	miscPruneProgress byte = 0x01
)

func u64be(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func beU64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

func miscKey(slot byte) []byte {
	return []byte{colMisc, slot}
}

func blobStatusKey(epoch, quorumID uint64, root [32]byte) []byte {
	k := make([]byte, 0, 1+8+8+32)
	k = append(k, colBlobStatus)
	k = append(k, u64be(epoch)...)
	k = append(k, u64be(quorumID)...)
	k = append(k, root[:]...)
	return k
}

func quorumNumKey(epoch uint64) []byte {
	k := make([]byte, 0, 1+8)
	k = append(k, colQuorumNum)
	k = append(k, u64be(epoch)...)
	return k
}

func quorumKey(epoch, quorumID uint64) []byte {
	k := make([]byte, 0, 1+8+8)
	k = append(k, colQuorum)
	k = append(k, u64be(epoch)...)
	k = append(k, u64be(quorumID)...)
	return k
}

func sliceIndexKey(epoch, quorumID uint64, root [32]byte) []byte {
	k := make([]byte, 0, 2+8+8+32)
	k = append(k, colSlice, sliceKindIndex)
	k = append(k, u64be(epoch)...)
	k = append(k, u64be(quorumID)...)
	k = append(k, root[:]...)
	return k
}

func sliceLightKey(epoch, quorumID uint64, root [32]byte, index uint64) []byte {
	k := make([]byte, 0, 2+8+8+32+8)
	k = append(k, colSlice, sliceKindLight)
	k = append(k, u64be(epoch)...)
	k = append(k, u64be(quorumID)...)
	k = append(k, root[:]...)
	k = append(k, u64be(index)...)
	return k
}

func sliceDataKey(epoch, quorumID uint64, root [32]byte, index uint64) []byte {
	k := make([]byte, 0, 2+8+8+32+8)
	k = append(k, colSlice, sliceKindData)
	k = append(k, u64be(epoch)...)
	k = append(k, u64be(quorumID)...)
	k = append(k, root[:]...)
	k = append(k, u64be(index)...)
	return k
}

// slicePrefixForEpoch returns the [start, end) key range covering every row
// of the given kind within the SLICE column for one epoch, used by Prune.
func slicePrefixForEpoch(kind byte, epoch uint64) (start, end []byte) {
	start = append([]byte{colSlice, kind}, u64be(epoch)...)
	end = append([]byte{colSlice, kind}, u64be(epoch+1)...)
	return start, end
}

// sliceIndexPrefixForEpoch bounds the blob-index rows (kind 0x00) for one
// epoch, used by GetEpochInfo.
func sliceIndexPrefixForEpoch(epoch uint64) (start, end []byte) {
	return slicePrefixForEpoch(sliceKindIndex, epoch)
}

func encodeU64Vec(vals []uint64) []byte {
	out := make([]byte, 4, 4+len(vals)*8)
	binary.BigEndian.PutUint32(out, uint32(len(vals)))
	for _, v := range vals {
		out = append(out, u64be(v)...)
	}
	return out
}

func decodeU64Vec(b []byte) ([]uint64, error) {
	if len(b) < 4 {
		return nil, errShortBuffer
	}
	n := binary.BigEndian.Uint32(b)
	b = b[4:]
	if uint64(len(b)) != uint64(n)*8 {
		return nil, errShortBuffer
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = beU64(b[i*8 : i*8+8])
	}
	return out, nil
}

func encodeU16Vec(vals []uint16) []byte {
	out := make([]byte, 4, 4+len(vals)*2)
	binary.BigEndian.PutUint32(out, uint32(len(vals)))
	for _, v := range vals {
		out = binary.BigEndian.AppendUint16(out, v)
	}
	return out
}

func decodeU16Vec(b []byte) ([]uint16, error) {
	if len(b) < 4 {
		return nil, errShortBuffer
	}
	n := binary.BigEndian.Uint32(b)
	b = b[4:]
	if uint64(len(b)) != uint64(n)*2 {
		return nil, errShortBuffer
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(b[i*2 : i*2+2])
	}
	return out, nil
}
