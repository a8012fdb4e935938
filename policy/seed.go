package policy

import "fmt"

// Seed document names. The binder grants these by name when organization and
// project roles change, so deployments that rename them must rebind.
const (
	SeedDefault        = "default"
	SeedOrgMember      = "org-member"
	SeedOrgAdmin       = "org-admin"
	SeedProjectManager = "project-manager"
	SeedDataCollector  = "data-collector"
	SeedProjectUser    = "project-user"
)

// seedBodies holds the built-in document bodies in load order.
var seedBodies = []struct {
	name string
	body string
}{
	{SeedDefault, defaultBody},
	{SeedOrgMember, orgMemberBody},
	{SeedOrgAdmin, orgAdminBody},
	{SeedProjectManager, projectManagerBody},
	{SeedDataCollector, dataCollectorBody},
	{SeedProjectUser, projectUserBody},
}

// SeedDocuments parses and returns the built-in policy documents in load
// order. The bodies are compile-time constants, so a parse failure is a
// programming error and panics.
func SeedDocuments() []*Document {
	docs := make([]*Document, 0, len(seedBodies))
	for _, s := range seedBodies {
		d, err := Parse(s.name, []byte(s.body))
		if err != nil {
			panic(fmt.Sprintf("policy: seed document %q: %v", s.name, err))
		}

		docs = append(docs, d)
	}

	return docs
}

// defaultBody applies to every authenticated principal: public discovery of
// organizations and projects, nothing more.
const defaultBody = `{
  "clause": [
    {
      "effect": "allow",
      "action": ["org.list"],
      "object": ["organization"]
    },
    {
      "effect": "allow",
      "action": ["org.view", "project.list"],
      "object": ["organization/*"]
    },
    {
      "effect": "allow",
      "action": ["project.view"],
      "object": ["project/*/*"]
    }
  ]
}`

// orgMemberBody is granted with {organization} bound to the member's
// organization. Members see the organization and its projects, including
// private ones.
const orgMemberBody = `{
  "clause": [
    {
      "effect": "allow",
      "action": ["org.view", "org.users.list", "project.list"],
      "object": ["organization/{organization}"]
    },
    {
      "effect": "allow",
      "action": ["project.view"],
      "object": ["project/{organization}/*"]
    }
  ]
}`

// orgAdminBody is granted in addition to org-member when the admin flag is
// set. Admins manage the organization, its membership, and every project
// and record within it.
const orgAdminBody = `{
  "clause": [
    {
      "effect": "allow",
      "action": ["org.update", "org.archive", "org.unarchive",
                 "org.users.add", "org.users.edit", "org.users.remove",
                 "project.create"],
      "object": ["organization/{organization}"]
    },
    {
      "effect": "allow",
      "action": ["project.*", "project.users.*", "project.resources.*",
                 "spatial.list", "spatial_rel.list", "party.list", "tenure.list"],
      "object": ["project/{organization}/*"]
    },
    {
      "effect": "allow",
      "action": ["spatial.*", "spatial_rel.*", "party.*", "tenure.*"],
      "object": ["spatial/{organization}/*/*", "spatial_rel/{organization}/*/*",
                 "party/{organization}/*/*", "tenure/{organization}/*/*"]
    }
  ]
}`

// projectManagerBody is granted with {organization} and {project} bound.
// Managers edit the project and all of its records.
const projectManagerBody = `{
  "clause": [
    {
      "effect": "allow",
      "action": ["project.view", "project.update", "project.edit",
                 "project.archive", "project.unarchive",
                 "project.users.*", "project.resources.*",
                 "spatial.list", "spatial_rel.list", "party.list", "tenure.list"],
      "object": ["project/{organization}/{project}"]
    },
    {
      "effect": "allow",
      "action": ["spatial.*", "spatial_rel.*", "party.*", "tenure.*"],
      "object": ["spatial/{organization}/{project}/*",
                 "spatial_rel/{organization}/{project}/*",
                 "party/{organization}/{project}/*",
                 "tenure/{organization}/{project}/*"]
    }
  ]
}`

// dataCollectorBody lets field staff view the project and contribute new
// records, without touching records already collected.
const dataCollectorBody = `{
  "clause": [
    {
      "effect": "allow",
      "action": ["project.view", "project.resources.add",
                 "spatial.list", "spatial_rel.list", "party.list", "tenure.list"],
      "object": ["project/{organization}/{project}"]
    },
    {
      "effect": "allow",
      "action": ["spatial.view", "spatial.create",
                 "spatial_rel.view", "spatial_rel.create",
                 "party.view", "party.create",
                 "tenure.view", "tenure.create"],
      "object": ["spatial/{organization}/{project}/*",
                 "spatial_rel/{organization}/{project}/*",
                 "party/{organization}/{project}/*",
                 "tenure/{organization}/{project}/*"]
    }
  ]
}`

// projectUserBody is read-only project access.
const projectUserBody = `{
  "clause": [
    {
      "effect": "allow",
      "action": ["project.view",
                 "spatial.list", "spatial_rel.list", "party.list", "tenure.list"],
      "object": ["project/{organization}/{project}"]
    },
    {
      "effect": "allow",
      "action": ["spatial.view",
                 "spatial_rel.view",
                 "party.view",
                 "tenure.view"],
      "object": ["spatial/{organization}/{project}/*",
                 "spatial_rel/{organization}/{project}/*",
                 "party/{organization}/{project}/*",
                 "tenure/{organization}/{project}/*"]
    }
  ]
}`
