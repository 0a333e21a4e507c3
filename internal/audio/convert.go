package audio

// BytesToInt16 将小端字节切片转换为 int16 样本，末尾不足 2 字节的部分被丢弃。
func BytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(b[2*i]) | int16(b[2*i+1])<<8
	}
	return out
}

// Int16ToBytes 将 int16 样本转换为小端字节切片。
func Int16ToBytes(in []int16) []byte {
	out := make([]byte, len(in)*2)
	for i, s := range in {
		out[2*i] = byte(s)
		out[2*i+1] = byte(s >> 8)
	}
	return out
}

// Int16ToInts 转换为 go-audio 使用的 []int。
func Int16ToInts(in []int16) []int {
	out := make([]int, len(in))
	for i, s := range in {
		out[i] = int(s)
	}
	return out
}
