package httpinterface

import "fmt"

const (
	// EntityPublic routes are served to anyone.
	EntityPublic = "public"
	// EntityParty routes act on behalf of the authenticated caller.
	EntityParty = "party"
	// EntityAdmin routes are reserved to the owner, the check is enforced by
	// the escrow service against the authenticated caller.
	EntityAdmin = "admin"
)

const (
	routeHealth          = "health"
	routeFingerprint     = "fingerprint"
	routePredictAddress  = "predictAddress"
	routeCreateOffer     = "createOffer"
	routeListOffers      = "listOffers"
	routeGetOffer        = "getOffer"
	routeAcceptOffer     = "acceptOffer"
	routeCancelOffer     = "cancelOffer"
	routeBatchCancel     = "batchCancelOffers"
	routeGetFees         = "getFees"
	routeCollectFees     = "collectFees"
	routeCraftReward     = "craftReward"
	routeListCrafts      = "listCrafts"
	routeGetCraft        = "getCraft"
	routeApprove         = "approve"
	routeGetBalance      = "getBalance"
	routeMetrics         = "metrics"
	routeGetEngineConfig = "getConfig"
	routeAddWebhook      = "addWebhook"
	routeRemoveWebhook   = "removeWebhook"
	routeListWebhooks    = "listWebhooks"
)

// AllPermissionsByRoute returns the entity each named route belongs to.
func AllPermissionsByRoute() map[string]string {
	return map[string]string{
		routeHealth:          EntityPublic,
		routeFingerprint:     EntityPublic,
		routePredictAddress:  EntityPublic,
		routeListOffers:      EntityPublic,
		routeGetOffer:        EntityPublic,
		routeGetFees:         EntityPublic,
		routeListCrafts:      EntityPublic,
		routeGetCraft:        EntityPublic,
		routeGetBalance:      EntityPublic,
		routeMetrics:         EntityPublic,
		routeGetEngineConfig: EntityPublic,
		routeCreateOffer:     EntityParty,
		routeAcceptOffer:     EntityParty,
		routeCancelOffer:     EntityParty,
		routeCraftReward:     EntityParty,
		routeApprove:         EntityParty,
		routeBatchCancel:     EntityAdmin,
		routeCollectFees:     EntityAdmin,
		routeAddWebhook:      EntityAdmin,
		routeRemoveWebhook:   EntityAdmin,
		routeListWebhooks:    EntityAdmin,
	}
}

// Validate makes sure every permission refers to a known entity.
func Validate() error {
	for route, entity := range AllPermissionsByRoute() {
		switch entity {
		case EntityPublic, EntityParty, EntityAdmin:
		default:
			return fmt.Errorf("route %s: unknown entity %q", route, entity)
		}
	}
	return nil
}

func requiresCaller(entity string) bool {
	return entity != EntityPublic
}
