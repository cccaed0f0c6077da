package memory

import (
	"time"

	"github.com/civicresolve/backend/internal/domain/entity"
	"github.com/civicresolve/backend/pkg/helpers"
)

// Sample fixture set used by the memory backend and the seed command.
// Every fixture account accepts the password below in development.
const SamplePassword = "password123"

// SampleAadhaarIDs is the allow-list accepted by identity verification.
func SampleAadhaarIDs() []string {
	return []string{
		"123456789012", "210987654321", "112233445566", "998877665544",
		"121212121212", "555666777888", "888777666555", "333444555666",
	}
}

// SampleUsers returns the fixture accounts: seven citizens, two authorities.
func SampleUsers() []*entity.User {
	hash, _ := helpers.HashPassword(SamplePassword)
	mk := func(id, username, email, mobile, aadhaar string, typ entity.UserType, bio, joined string) *entity.User {
		t, _ := time.Parse(time.RFC3339, joined)
		return &entity.User{
			ID:        id,
			Username:  username,
			Email:     email,
			Mobile:    mobile,
			Aadhaar:   aadhaar,
			Password:  hash,
			Type:      typ,
			Verified:  true,
			AvatarURL: "https://i.pravatar.cc/150?u=" + id,
			Bio:       bio,
			JoinedAt:  t,
		}
	}
	return []*entity.User{
		mk("u1", "john_doe", "john.doe@gmail.com", "1234567890", "123456789012", entity.UserTypeCitizen,
			"Just a citizen trying to make my neighborhood a better place. Reporting issues one pothole at a time.",
			"2023-01-15T10:00:00Z"),
		mk("u2", "jane_smith", "jane.smith@gmail.com", "0987654321", "210987654321", entity.UserTypeCitizen,
			"Passionate about urban development and community safety. Believer in the power of collective action.",
			"2023-02-20T11:30:00Z"),
		mk("u3", "eco_warrior", "eco.warrior@gmail.com", "1112223333", "998877665544", entity.UserTypeCitizen,
			"Keeping our parks clean and our city green. If you see litter, report it!",
			"2023-03-05T14:00:00Z"),
		mk("u4", "city_watcher", "city.watcher@gmail.com", "4445556666", "121212121212", entity.UserTypeCitizen,
			"My eyes are on the city's infrastructure. From broken signs to graffiti, nothing gets past me.",
			"2023-04-11T09:00:00Z"),
		mk("u5", "solution_seeker", "solution.seeker@gmail.com", "1231231234", "555666777888", entity.UserTypeCitizen,
			"I don't just see problems, I look for solutions. Let's work together.",
			"2023-05-22T18:00:00Z"),
		mk("u6", "active_citizen", "active.citizen@gmail.com", "4321432156", "888777666555", entity.UserTypeCitizen,
			"Actively participating in making my community safer and more efficient.",
			"2023-06-30T12:00:00Z"),
		mk("u7", "urban_gardener", "urban.gardener@gmail.com", "6543219870", "333444555666", entity.UserTypeCitizen,
			"Cultivating community gardens and reporting any issues that might harm our green spaces.",
			"2023-07-15T16:45:00Z"),
		mk("a1", "officer_k", "officer.k@gov.in", "5555555555", "112233445566", entity.UserTypeAuthority,
			"Public Works Department. Committed to timely resolution of infrastructure issues.",
			"2022-11-10T08:00:00Z"),
		mk("a2", "inspector_raj", "inspector.raj@gov.in", "7778889999", "112233445566", entity.UserTypeAuthority,
			"Sanitation and Parks Department. Ensuring a clean and safe environment for all citizens.",
			"2022-12-01T08:30:00Z"),
	}
}

// SampleIssues returns the fixture issue reports with creation times relative
// to startup, mirroring a live feed.
func SampleIssues() []*entity.Issue {
	now := time.Now().UTC()
	daysAgo := func(d int) time.Time { return now.Add(-time.Duration(d) * 24 * time.Hour) }
	img := func(seed string) string { return "https://picsum.photos/seed/" + seed + "/800/600" }
	avatar := func(id string) string { return "https://i.pravatar.cc/150?u=" + id }

	return []*entity.Issue{
		{
			ID:             "i1",
			Title:          "Large Pothole on Main Street",
			Description:    "A deep and dangerous pothole has formed near the intersection of Main St and 1st Ave. It has already caused tire damage to several vehicles.",
			Tags:           []string{"#pothole", "#danger", "#road_repair"},
			ImageURL:       img("i1"),
			Location:       entity.Coordinate{Lat: 34.0522, Lng: -118.2437},
			Status:         entity.StatusPending,
			AuthorID:       "u1",
			AuthorUsername: "john_doe",
			AuthorAvatar:   avatar("u1"),
			CreatedAt:      daysAgo(1),
			Upvotes:        12,
			Reposts:        3,
		},
		{
			ID:             "i2",
			Title:          "Streetlight Out on Oak Avenue",
			Description:    "The streetlight at 123 Oak Avenue has been out for three nights, making the area very dark and unsafe.",
			Tags:           []string{"#streetlight", "#safety", "#darkness"},
			ImageURL:       img("i2"),
			Location:       entity.Coordinate{Lat: 34.0550, Lng: -118.2500},
			Status:         entity.StatusInProgress,
			AuthorID:       "u2",
			AuthorUsername: "jane_smith",
			AuthorAvatar:   avatar("u2"),
			CreatedAt:      daysAgo(2),
			Upvotes:        8,
			Reposts:        1,
			Updates: []entity.IssueUpdate{
				{AuthorityID: "a1", Timestamp: now, Text: "Team has been dispatched to assess the issue."},
			},
		},
		{
			ID:             "i3",
			Title:          "Overflowing Trash Bin at City Park",
			Description:    "The main trash bin near the park entrance is overflowing, and garbage is spreading around the area. It needs to be emptied immediately.",
			Tags:           []string{"#trash", "#park", "#cleanliness"},
			ImageURL:       img("i3"),
			Location:       entity.Coordinate{Lat: 34.0600, Lng: -118.2450},
			Status:         entity.StatusResolved,
			AuthorID:       "u3",
			AuthorUsername: "eco_warrior",
			AuthorAvatar:   avatar("u3"),
			CreatedAt:      daysAgo(5),
			Upvotes:        25,
			Reposts:        5,
			Updates: []entity.IssueUpdate{
				{AuthorityID: "a1", Timestamp: daysAgo(3), Text: "Sanitation crew scheduled for pickup."},
				{AuthorityID: "a1", Timestamp: daysAgo(2), Text: "The trash has been collected and the area cleaned."},
			},
			ResolvedImageURL: img("i3-resolved"),
		},
		{
			ID:             "i4",
			Title:          "Broken Swing at Playground",
			Description:    "One of the swings in the kids' area at Central Park is broken and poses a safety hazard.",
			Tags:           []string{"#park", "#safety", "#playground"},
			ImageURL:       img("i4"),
			Location:       entity.Coordinate{Lat: 34.0620, Lng: -118.2480},
			Status:         entity.StatusPending,
			AuthorID:       "u2",
			AuthorUsername: "jane_smith",
			AuthorAvatar:   avatar("u2"),
			CreatedAt:      daysAgo(3),
			Upvotes:        15,
			Reposts:        2,
		},
		{
			ID:             "i5",
			Title:          "Graffiti on Library Wall",
			Description:    "There is extensive graffiti on the east wall of the public library, which is very unsightly.",
			Tags:           []string{"#graffiti", "#vandalism", "#cleanliness"},
			ImageURL:       img("i5"),
			Location:       entity.Coordinate{Lat: 34.0580, Lng: -118.2410},
			Status:         entity.StatusInProgress,
			AuthorID:       "u4",
			AuthorUsername: "city_watcher",
			AuthorAvatar:   avatar("u4"),
			CreatedAt:      daysAgo(4),
			Upvotes:        5,
			Reposts:        0,
			Updates: []entity.IssueUpdate{
				{AuthorityID: "a2", Timestamp: daysAgo(1), Text: "Cleanup crew has been notified and scheduled for this week."},
			},
		},
		{
			ID:             "i6",
			Title:          "Leaking Fire Hydrant",
			Description:    "A fire hydrant on the corner of 5th and Elm is leaking a significant amount of water.",
			Tags:           []string{"#water_waste", "#leak", "#infrastructure"},
			ImageURL:       img("i6"),
			Location:       entity.Coordinate{Lat: 34.0500, Lng: -118.2550},
			Status:         entity.StatusResolved,
			AuthorID:       "u1",
			AuthorUsername: "john_doe",
			AuthorAvatar:   avatar("u1"),
			CreatedAt:      daysAgo(10),
			Upvotes:        30,
			Reposts:        7,
			Updates: []entity.IssueUpdate{
				{AuthorityID: "a2", Timestamp: daysAgo(9), Text: "Water department dispatched."},
				{AuthorityID: "a2", Timestamp: daysAgo(9).Add(time.Hour), Text: "The leak has been repaired."},
			},
			ResolvedImageURL: img("i6-resolved"),
		},
		{
			ID:             "i7",
			Title:          "Fallen Tree Blocking Bike Path",
			Description:    "A large tree branch has fallen across the Green Way bike path, making it impassable.",
			Tags:           []string{"#park", "#obstruction", "#safety"},
			ImageURL:       img("i7"),
			Location:       entity.Coordinate{Lat: 34.0650, Lng: -118.2520},
			Status:         entity.StatusPending,
			AuthorID:       "u5",
			AuthorUsername: "solution_seeker",
			AuthorAvatar:   avatar("u5"),
			CreatedAt:      daysAgo(1),
			Upvotes:        18,
			Reposts:        4,
		},
		{
			ID:             "i8",
			Title:          "Malfunctioning Pedestrian Signal",
			Description:    "The crosswalk signal at the corner of Maple & 3rd is stuck on \"Don't Walk\".",
			Tags:           []string{"#traffic", "#safety", "#signal"},
			ImageURL:       img("i8"),
			Location:       entity.Coordinate{Lat: 34.0510, Lng: -118.2490},
			Status:         entity.StatusInProgress,
			AuthorID:       "u6",
			AuthorUsername: "active_citizen",
			AuthorAvatar:   avatar("u6"),
			CreatedAt:      daysAgo(2),
			Upvotes:        22,
			Reposts:        6,
			Updates: []entity.IssueUpdate{
				{AuthorityID: "a1", Timestamp: daysAgo(1), Text: "Transportation department has been alerted and will investigate."},
			},
		},
		{
			ID:             "i9",
			Title:          "Abandoned Vehicle on Side Street",
			Description:    "A blue sedan has been parked and seemingly abandoned on Willow Lane for over two weeks.",
			Tags:           []string{"#vehicle", "#abandoned", "#road_repair"},
			ImageURL:       img("i9"),
			Location:       entity.Coordinate{Lat: 34.0480, Lng: -118.2420},
			Status:         entity.StatusPending,
			AuthorID:       "u4",
			AuthorUsername: "city_watcher",
			AuthorAvatar:   avatar("u4"),
			CreatedAt:      daysAgo(15),
			Upvotes:        9,
			Reposts:        1,
		},
	}
}
