package experience

import "fmt"

func cacheKeyDetails(id string) string {
	return fmt.Sprintf("experience:%s", id)
}

func cacheKeyStats(id string) string {
	return fmt.Sprintf("experience:%s:stats", id)
}
