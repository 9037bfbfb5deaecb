package wasteland

// sliceBuffer splits data into consecutive fragments of at most limit
// bytes. Every fragment except possibly the last is exactly limit bytes
// long, and their concatenation in order is data. An empty payload is a
// single empty fragment.
func sliceBuffer(data []byte, limit int) [][]byte {
	if len(data) <= limit {
		return [][]byte{data}
	}
	frags := make([][]byte, 0, (len(data)+limit-1)/limit)
	for off := 0; off < len(data); off += limit {
		end := off + limit
		if end > len(data) {
			end = len(data)
		}
		frags = append(frags, data[off:end])
	}
	return frags
}

// fanout is the number of child addresses that fit in one pointer buffer
// under the record size limit. Each serialized address costs its hex
// width plus quoting and a separator.
func fanout(bufferSizeLimit, addressSize int) int {
	return (bufferSizeLimit - pointerOverhead()) / (addressSize + 3)
}

// treeCapacity is the maximum payload representable in a pointer tree of
// the given depth: k^depth fragments of bufferSizeLimit bytes.
func treeCapacity(k, depth, bufferSizeLimit int) int64 {
	c := int64(bufferSizeLimit)
	for i := 0; i < depth; i++ {
		c *= int64(k)
	}
	return c
}
