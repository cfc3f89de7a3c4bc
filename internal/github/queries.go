package github

// GraphQL documents for the two queries the aggregation pipeline issues.

// userProfileQuery fetches the user's identity, repository counts and
// contribution totals in a single request.
const userProfileQuery = `
query($login: String!) {
  user(login: $login) {
    login
    name
    avatarUrl
    bio
    location
    company
    email
    websiteUrl
    url
    createdAt
    repositories {
      totalCount
    }
    publicRepositories: repositories(privacy: PUBLIC) {
      totalCount
    }
    privateRepositories: repositories(privacy: PRIVATE) {
      totalCount
    }
    pullRequests(states: MERGED) {
      totalCount
    }
    contributionsCollection {
      totalCommitContributions
      restrictedContributionsCount
    }
  }
}`

// pullRequestSearchQuery fetches one page of merged pull requests matching a
// textual search query, with line change counts per pull request.
const pullRequestSearchQuery = `
query($query: String!, $cursor: String) {
  search(query: $query, type: ISSUE, first: 100, after: $cursor) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      ... on PullRequest {
        additions
        deletions
      }
    }
  }
}`
