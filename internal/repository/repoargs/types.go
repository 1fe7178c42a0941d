package repoargs

type RepositoryName string

const (
	OrderRepoName RepositoryName = "order"
)
