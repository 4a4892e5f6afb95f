package domain

import "time"

// SampleListings is the fixed data set served by the mock endpoint and used by
// the LLM source when it has no credential.
func SampleListings(now time.Time) []JobListing {
	day := 24 * time.Hour
	now = now.UTC()
	return []JobListing{
		{
			ID:                        "sample-1",
			Title:                     "Senior Full-Stack Developer - Secret Clearance Required",
			Company:                   "Defense Tech Solutions",
			Location:                  "Arlington, VA (Remote)",
			Description:               "Seeking experienced full-stack developer with C# and Azure expertise. Must hold active Secret clearance. Work on cutting-edge defense applications using .NET 8, Azure DevOps, and modern frontend frameworks.",
			URL:                       "https://example.com/job1",
			Source:                    "Indeed",
			PostedDate:                now.Add(-2 * day),
			RequiresSecurityClearance: true,
		},
		{
			ID:                        "sample-2",
			Title:                     "Cloud Application Developer (TS/SCI)",
			Company:                   "Federal Systems Inc",
			Location:                  "McLean, VA",
			Description:               "Build and maintain Azure-based applications for federal clients. Required: C#, ASP.NET Core, Azure Cloud Services, Kubernetes. TS/SCI clearance required.",
			URL:                       "https://example.com/job2",
			Source:                    "Indeed",
			PostedDate:                now.Add(-5 * day),
			RequiresSecurityClearance: true,
		},
		{
			ID:                        "sample-3",
			Title:                     "Full Stack Software Engineer - Azure",
			Company:                   "Cyber Defense Corp",
			Location:                  "Remote",
			Description:               "Join our team building next-generation cybersecurity platforms. Tech stack: C#, Azure Functions, React, SQL Server. Active security clearance required.",
			URL:                       "https://example.com/job3",
			Source:                    "Monster",
			PostedDate:                now.Add(-1 * day),
			RequiresSecurityClearance: true,
		},
		{
			ID:                        "sample-4",
			Title:                     ".NET Developer with Azure Experience",
			Company:                   "Intelligence Solutions LLC",
			Location:                  "Washington, DC",
			Description:               "Develop mission-critical applications for intelligence community. C#, Azure DevOps, microservices architecture. Secret clearance minimum, TS/SCI preferred.",
			URL:                       "https://example.com/job4",
			Source:                    "Monster",
			PostedDate:                now.Add(-7 * day),
			RequiresSecurityClearance: true,
		},
		{
			ID:                        "sample-5",
			Title:                     "Principal Software Engineer - DOD Clearance",
			Company:                   "Aerospace Technologies",
			Location:                  "Colorado Springs, CO (Hybrid)",
			Description:               "Lead development of cloud-native defense systems. Expertise in C#, Azure Kubernetes Service, and secure DevSecOps practices required. Active DOD clearance mandatory.",
			URL:                       "https://example.com/job5",
			Source:                    "Indeed",
			PostedDate:                now.Add(-3 * day),
			RequiresSecurityClearance: true,
		},
	}
}
