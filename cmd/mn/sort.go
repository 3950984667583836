package main

type tagCount struct {
	tag   string
	count int
}

type tagsByCount []tagCount

func (tags tagsByCount) Len() int {
	return len(tags)
}

func (tags tagsByCount) Swap(i, j int) {
	tags[i], tags[j] = tags[j], tags[i]
}

// Less puts the most used tags first, ties in alphabetical order.
func (tags tagsByCount) Less(i, j int) bool {
	if tags[i].count != tags[j].count {
		return tags[i].count > tags[j].count
	}
	return tags[i].tag < tags[j].tag
}
