package query

import "fmt"

// ListID marks the tag that every list query of a resource provides.
const ListID = "LIST"

// Tag names one resource entity, or the whole list when ID is ListID.
type Tag struct {
	Resource string
	ID       string
}

func (t Tag) String() string {
	return t.Resource + ":" + t.ID
}

func ListTag(resource string) Tag {
	return Tag{Resource: resource, ID: ListID}
}

func IDTag(resource string, id any) Tag {
	return Tag{Resource: resource, ID: fmt.Sprint(id)}
}

// ItemTags returns the LIST tag of resource plus one tag per id.
func ItemTags[T any](resource string, items []T, id func(T) any) []Tag {
	tags := make([]Tag, 0, len(items)+1)
	for _, item := range items {
		tags = append(tags, IDTag(resource, id(item)))
	}
	return append(tags, ListTag(resource))
}

// EntityTags is the invalidation set for a mutation that changes one entity:
// its own tag and the resource LIST.
func EntityTags(resource string, id any) []Tag {
	return []Tag{IDTag(resource, id), ListTag(resource)}
}
