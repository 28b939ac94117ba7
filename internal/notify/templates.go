// internal/notify/templates.go
package notify

import (
	"fmt"

	"stageconnect/internal/models"
)

// emailMessage is a rendered notification ready for a mail channel.
type emailMessage struct {
	To      string
	Subject string
	Body    string
}

const signature = "\n\nCordialement,\nL'équipe Stage Connect\n"

// renderEmails maps an event to zero or more outgoing emails. The texts
// follow the platform's historical French wording.
func renderEmails(ev Event) []emailMessage {
	switch ev.Type {
	case EventOfferSubmitted:
		if ev.Offer == nil {
			return nil
		}
		return []emailMessage{{
			To:      ev.Offer.ContactEmail,
			Subject: "Votre offre de stage a été soumise",
			Body: fmt.Sprintf(
				"Bonjour %s,\n\nVotre offre de stage a bien été soumise sur Stage Connect !\n\nDétails de l'offre :\n- Titre : %s\n- Entreprise : %s\n\nVotre offre est actuellement en attente de validation par nos responsables.\nVous recevrez un email dès qu'elle sera validée.%s",
				ev.Offer.ContactName, ev.Offer.Title, ev.Offer.Organisme, signature),
		}}

	case EventOfferValidated:
		if ev.Offer == nil {
			return nil
		}
		return []emailMessage{{
			To:      ev.Offer.ContactEmail,
			Subject: "Votre offre de stage a été validée",
			Body: fmt.Sprintf(
				"Bonjour %s,\n\nBonne nouvelle ! Votre offre de stage a été validée et est maintenant visible par les étudiants.\n\nDétails de l'offre :\n- Titre : %s\n- Entreprise : %s\n\nLes étudiants peuvent maintenant candidater à votre offre.\nVous recevrez un email à chaque nouvelle candidature.%s",
				ev.Offer.ContactName, ev.Offer.Title, ev.Offer.Organisme, signature),
		}}

	case EventOfferRefused:
		if ev.Offer == nil {
			return nil
		}
		return []emailMessage{{
			To:      ev.Offer.ContactEmail,
			Subject: "Votre offre de stage a été refusée",
			Body: fmt.Sprintf(
				"Bonjour %s,\n\nNous sommes désolés de vous informer que votre offre de stage n'a pas été retenue.\n\nDétails de l'offre :\n- Titre : %s\n- Entreprise : %s\n\nVous pouvez soumettre une nouvelle offre à tout moment.%s",
				ev.Offer.ContactName, ev.Offer.Title, ev.Offer.Organisme, signature),
		}}

	case EventOfferClosed:
		if ev.Offer == nil {
			return nil
		}
		return []emailMessage{{
			To:      ev.Offer.ContactEmail,
			Subject: "Votre offre de stage a été clôturée",
			Body: fmt.Sprintf(
				"Bonjour %s,\n\nVotre offre de stage a été clôturée.\n\nDétails de l'offre :\n- Titre : %s\n- Motif : %s\n\nVous pouvez consulter les candidatures reçues depuis votre espace.%s",
				ev.Offer.ContactName, ev.Offer.Title, ev.Offer.ClosingReason, signature),
		}}

	case EventApplicationCreated:
		if ev.Offer == nil || ev.Student == nil {
			return nil
		}
		// Confirmation to the student plus a heads-up to the company.
		return []emailMessage{
			{
				To:      ev.Student.Email,
				Subject: "Votre candidature a été enregistrée",
				Body: fmt.Sprintf(
					"Bonjour %s,\n\nVotre candidature à l'offre suivante a bien été enregistrée :\n- Titre : %s\n- Entreprise : %s\n\nVous serez informé(e) dès que l'entreprise aura examiné votre candidature.%s",
					ev.Student.Username, ev.Offer.Title, ev.Offer.Organisme, signature),
			},
			{
				To:      ev.Offer.ContactEmail,
				Subject: "Nouvelle candidature reçue",
				Body: fmt.Sprintf(
					"Bonjour %s,\n\nVous avez reçu une nouvelle candidature pour votre offre :\n- Titre : %s\n- Candidat : %s\n\nConnectez-vous pour consulter le dossier du candidat.%s",
					ev.Offer.ContactName, ev.Offer.Title, ev.Student.Username, signature),
			},
		}

	case EventApplicationStatusChanged:
		if ev.Offer == nil || ev.Student == nil || ev.Candidature == nil {
			return nil
		}
		var subject string
		if ev.Candidature.Status == models.CandidatureAccepted {
			subject = "Votre candidature a été acceptée"
		} else {
			subject = "Votre candidature a été refusée"
		}
		return []emailMessage{{
			To:      ev.Student.Email,
			Subject: subject,
			Body: fmt.Sprintf(
				"Bonjour %s,\n\nLe statut de votre candidature a changé :\n- Offre : %s\n- Entreprise : %s\n- Nouveau statut : %s%s",
				ev.Student.Username, ev.Offer.Title, ev.Offer.Organisme, ev.Candidature.Status, signature),
		}}

	case EventUserRegistered:
		if ev.User == nil {
			return nil
		}
		return []emailMessage{{
			To:      ev.User.Email,
			Subject: "Bienvenue sur Stage Connect !",
			Body: fmt.Sprintf(
				"Bonjour %s,\n\nVotre compte a été créé avec succès sur Stage Connect !\n\nInformations de votre compte :\n- Nom d'utilisateur : %s\n- Email : %s\n- Rôle : %s\n\nVous pouvez maintenant vous connecter et accéder à la plateforme.%s",
				ev.User.Username, ev.User.Username, ev.User.Email, ev.User.Role, signature),
		}}
	}

	return nil
}
