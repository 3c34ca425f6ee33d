package utils

import "hash/fnv"

// ShardIndex 按 key 的 fnv 哈希分配到 [0, n) 的分片
func ShardIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
