package stshell

import "context"

// TreeFetcher retrieves the resource tree of a single application
type TreeFetcher interface {
	FetchTree(ctx context.Context, owner string) ([]ResourceNode, error)
}

// ItemFetcher downloads the content of one leaf of an application.
// resourceType is the leaf's [Leaf.ResourceType].
type ItemFetcher interface {
	FetchItem(ctx context.Context, owner, itemID, resourceType string) ([]byte, error)
}

// BundleSource is everything the bundle downloader needs from the IDE for
// one application kind
type BundleSource interface {
	TreeFetcher
	ItemFetcher
}
