package lens

import "fmt"

const publicationFields = `
      id
      createdAt
      hidden
      profile { id handle name ownedBy }
      metadata { name content }
      stats { totalAmountOfComments totalAmountOfMirrors totalAmountOfCollects }`

// PublicationQuery loads a publication together with the viewer's follow
// relationship to its author.
var PublicationQuery = fmt.Sprintf(`query Publication($request: PublicationQueryRequest!, $followRequest: DoesFollowRequest!) {
  publication(request: $request) {
    __typename
    ... on Post {%[1]s
    }
    ... on Comment {%[1]s
    }
    ... on Mirror {%[1]s
    }
  }
  doesFollow(request: $followRequest) {
    followerAddress
    profileId
    follows
  }
}`, publicationFields)

// ReportPublicationMutation submits a report. The response carries no payload.
const ReportPublicationMutation = `mutation ReportPublication($request: ReportPublicationRequest!) {
  reportPublication(request: $request)
}`
